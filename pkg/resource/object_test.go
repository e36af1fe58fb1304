package resource

import (
	"encoding/json"
	"testing"
)

type configMapHeader struct {
	Data map[string]string `json:"data,omitempty"`
}

type podSpec struct {
	Image string `json:"image,omitempty"`
}

func TestObjectMarshalFlattensHeaderAlongsideSpec(t *testing.T) {
	obj := Object[EmptyHeaderSpec, EmptyHeaderSpec, configMapHeader]{
		APIVersion: "v1",
		Kind:       "ConfigMap",
		Metadata:   ObjectMeta{Name: "settings", Namespace: "default"},
		Header:     configMapHeader{Data: map[string]string{"key": "value"}},
	}

	out, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}

	if _, ok := doc["data"]; !ok {
		t.Fatalf("expected header field %q to sit at the top level, got %s", "data", out)
	}
	if _, nested := doc["Header"]; nested {
		t.Fatalf("header must not be nested under a Header key: %s", out)
	}
	if doc["metadata"] == nil {
		t.Fatalf("expected metadata to survive alongside the flattened header: %s", out)
	}
}

func TestObjectUnmarshalRoundTrips(t *testing.T) {
	doc := []byte(`{
		"apiVersion": "v1",
		"kind": "ConfigMap",
		"metadata": {"name": "settings", "namespace": "default"},
		"data": {"key": "value"}
	}`)

	var obj Object[EmptyHeaderSpec, EmptyHeaderSpec, configMapHeader]
	if err := json.Unmarshal(doc, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if obj.Metadata.Name != "settings" {
		t.Fatalf("expected metadata.name to decode, got %q", obj.Metadata.Name)
	}
	if obj.Header.Data["key"] != "value" {
		t.Fatalf("expected header.Data to decode from the flattened document, got %#v", obj.Header.Data)
	}
}

func TestObjectWithSpecAndEmptyHeaderRoundTrips(t *testing.T) {
	obj := Object[podSpec, EmptyHeaderSpec, EmptyHeaderSpec]{
		APIVersion: "v1",
		Kind:       "Pod",
		Metadata:   ObjectMeta{Name: "web"},
		Spec:       podSpec{Image: "nginx"},
	}

	out, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var roundTripped Object[podSpec, EmptyHeaderSpec, EmptyHeaderSpec]
	if err := json.Unmarshal(out, &roundTripped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if roundTripped.Spec.Image != "nginx" {
		t.Fatalf("expected spec.image to round-trip, got %q", roundTripped.Spec.Image)
	}
}

func TestComparisonValueFlattensHeader(t *testing.T) {
	cv := ComparisonValue[EmptyHeaderSpec, configMapHeader]{
		Metadata: ObjectMeta{Name: "settings"},
		Header:   configMapHeader{Data: map[string]string{"key": "value"}},
	}

	out, err := json.Marshal(cv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	if _, ok := doc["data"]; !ok {
		t.Fatalf("expected header field to flatten into the comparison document: %s", out)
	}
}

// EmptyHeaderSpec stands in for kinds.EmptySpec/EmptyStatus/EmptyHeader
// without importing pkg/kinds, which would create an import cycle
// (kinds imports resource).
type EmptyHeaderSpec struct{}
