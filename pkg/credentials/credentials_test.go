package credentials

import (
	"testing"
	"time"

	"go.datum.net/k8sclient/pkg/kubeconfig"
)

type fakeBuilder struct {
	caPath       string
	caData       []byte
	certPath     string
	keyPath      string
	certData     []byte
	keyData      []byte
}

func (f *fakeBuilder) LoadCA(path string) error {
	f.caPath = path
	return nil
}

func (f *fakeBuilder) LoadCAData(pem []byte) error {
	f.caData = pem
	return nil
}

func (f *fakeBuilder) LoadClientCert(certPath, keyPath string) error {
	f.certPath = certPath
	f.keyPath = keyPath
	return nil
}

func (f *fakeBuilder) LoadClientCertData(certPEM, keyPEM []byte) error {
	f.certData = certPEM
	f.keyData = keyPEM
	return nil
}

func TestResolveClientCertificatePath(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{
		Cluster: kubeconfig.ClusterDetail{CertificateAuthorityPath: "/tmp/ca.crt"},
		User: kubeconfig.UserDetail{
			ClientCertificatePath: "/tmp/client.crt",
			ClientKeyPath:         "/tmp/client.key",
		},
	}
	b := &fakeBuilder{}

	resolved, err := Resolve(kc, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.caPath != "/tmp/ca.crt" {
		t.Errorf("CA path not loaded, got %q", b.caPath)
	}
	if b.certPath != "/tmp/client.crt" || b.keyPath != "/tmp/client.key" {
		t.Errorf("client cert path pair not loaded, got %q/%q", b.certPath, b.keyPath)
	}
	if resolved.Token != "" {
		t.Errorf("expected no token, got %q", resolved.Token)
	}
}

func TestResolveClientCertificatePathMissingKey(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{
		User: kubeconfig.UserDetail{ClientCertificatePath: "/tmp/client.crt"},
	}
	if _, err := Resolve(kc, &fakeBuilder{}); err == nil {
		t.Fatal("expected error when client-key is missing")
	}
}

func TestResolveInlineCertData(t *testing.T) {
	// clientcmd already base64-decodes client-certificate-data/
	// client-key-data while loading the kubeconfig YAML, so by the time
	// Resolve sees a UserDetail these fields hold raw PEM bytes -- not
	// base64 text to decode again.
	kc := &kubeconfig.Kubeconfig{
		User: kubeconfig.UserDetail{ClientCertificateData: []byte("cert-pem"), ClientKeyData: []byte("key-pem")},
	}
	b := &fakeBuilder{}

	if _, err := Resolve(kc, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b.certData) != "cert-pem" || string(b.keyData) != "key-pem" {
		t.Errorf("cert/key mismatch: %q / %q", b.certData, b.keyData)
	}
}

func TestResolveInlineCertDataMissingKey(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{
		User: kubeconfig.UserDetail{ClientCertificateData: []byte("cert-pem")},
	}
	if _, err := Resolve(kc, &fakeBuilder{}); err == nil {
		t.Fatal("expected error when client-key-data is missing")
	}
}

func TestResolveBearerToken(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{User: kubeconfig.UserDetail{Token: "mytoken"}}
	resolved, err := Resolve(kc, &fakeBuilder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Token != "mytoken" {
		t.Errorf("got token %q, want mytoken", resolved.Token)
	}
}

func TestResolveNoCredentialsIsError(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{}
	if _, err := Resolve(kc, &fakeBuilder{}); err == nil {
		t.Fatal("expected error when no credential source is present")
	}
}

func TestResolveGCPReusesUnexpiredCachedToken(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{
		User: kubeconfig.UserDetail{
			GCPAuthProvider: &kubeconfig.GCPAuthProvider{
				CmdPath:     "/no/such/gcloud-binary",
				AccessToken: "cached-token",
				Expiry:      time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			},
		},
	}
	resolved, err := Resolve(kc, &fakeBuilder{})
	if err != nil {
		t.Fatalf("expected cached token to avoid invoking missing binary, got error: %v", err)
	}
	if resolved.Token != "cached-token" {
		t.Errorf("got token %q, want cached-token", resolved.Token)
	}
}

func TestResolveGCPReinvokesOnExpiredCache(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{
		User: kubeconfig.UserDetail{
			GCPAuthProvider: &kubeconfig.GCPAuthProvider{
				CmdPath:     "/no/such/gcloud-binary",
				AccessToken: "stale-token",
				Expiry:      time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
			},
		},
	}
	if _, err := Resolve(kc, &fakeBuilder{}); err == nil {
		t.Fatal("expected error invoking nonexistent gcloud binary once cache expired")
	}
}

func TestResolvePriorityExecOverCertPath(t *testing.T) {
	kc := &kubeconfig.Kubeconfig{
		User: kubeconfig.UserDetail{
			Exec:                  &kubeconfig.Exec{Command: "/bin/false"},
			ClientCertificatePath: "/tmp/client.crt",
			ClientKeyPath:         "/tmp/client.key",
		},
	}
	// Exec wins priority, so the failing command's error is surfaced
	// rather than the valid cert path being used.
	if _, err := Resolve(kc, &fakeBuilder{}); err == nil {
		t.Fatal("expected exec plugin error to surface, priority should not fall through to cert path")
	}
}
