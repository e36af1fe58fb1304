// Package credentials resolves the TLS and bearer-token material a
// request dispatcher authenticates with, from either a kubeconfig user
// stanza or an in-cluster pod service account. The resolution order
// mirrors the original client's configure_out_of_cluster priority:
// exec plugin, inline client certificate, client certificate path,
// bearer token, GCP auth-provider, then failure.
package credentials

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"k8s.io/klog/v2"

	"go.datum.net/k8sclient/internal/errors"
	"go.datum.net/k8sclient/pkg/kubeconfig"
)

// Builder is the TLS backend construction contract a transport
// implements. Resolve drives a Builder through the subset of calls a
// given credential source requires; building the finished client is
// left to the caller, which calls Build on its concrete builder.
type Builder interface {
	LoadCA(path string) error
	LoadCAData(pem []byte) error
	LoadClientCert(certPath, keyPath string) error
	LoadClientCertData(certPEM, keyPEM []byte) error
}

// Resolved is the outcome of resolving a credential source: the host
// to dial (set by ResolvePod only; Resolve leaves it empty) and an
// optional bearer token to attach to every request (set when the source
// produces a token rather than, or in addition to, mTLS material). The
// TLS material itself has already been loaded into the Builder passed
// to Resolve or ResolvePod.
type Resolved struct {
	Host  string
	Token string
	// TokenRefresh re-derives the bearer token, for sources whose token
	// can change mid-session (exec plugins, the GCP auth-provider, and
	// the in-cluster service account token file). Nil when Token is
	// static or absent.
	TokenRefresh func() (string, error)
}

// ExecCredential is the subset of the client.authentication.k8s.io
// ExecCredential response this resolver reads.
type ExecCredential struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
	Status     struct {
		Token                 string     `json:"token"`
		ClientCertificateData string     `json:"clientCertificateData"`
		ClientKeyData         string     `json:"clientKeyData"`
		ExpirationTimestamp   *time.Time `json:"expirationTimestamp,omitempty"`
	} `json:"status"`
}

type gcpAuthResponse struct {
	Credential struct {
		AccessToken string `json:"access_token"`
	} `json:"credential"`
}

// ResolvePod loads the pod's CA into b and returns the bearer token for
// an in-cluster pod service account.
func ResolvePod(pod *kubeconfig.PodConfig, b Builder) (*Resolved, error) {
	if err := b.LoadCA(pod.CAPath); err != nil {
		return nil, fmt.Errorf("load pod CA: %w", err)
	}
	return &Resolved{
		Host: pod.Host,
		TokenRefresh: func() (string, error) {
			raw, err := os.ReadFile(filepath.Join(filepath.Dir(pod.CAPath), "token"))
			if err != nil {
				return "", fmt.Errorf("reread service account token: %w", err)
			}
			return strings.TrimSpace(string(raw)), nil
		},
		Token: pod.Token,
	}, nil
}

// Resolve builds the TLS backend and bearer token for a kubeconfig
// user stanza, applying the priority order documented on the package.
func Resolve(kc *kubeconfig.Kubeconfig, b Builder) (*Resolved, error) {
	if err := loadCA(kc.Cluster, b); err != nil {
		return nil, err
	}

	u := kc.User
	switch {
	case u.Exec != nil:
		return resolveExec(u.Exec, b)
	case len(u.ClientCertificateData) > 0:
		return resolveInlineCert(u, b)
	case u.ClientCertificatePath != "":
		return resolveCertPath(u, b)
	case u.Token != "":
		return &Resolved{Token: u.Token}, nil
	case u.GCPAuthProvider != nil:
		return resolveGCP(u.GCPAuthProvider)
	default:
		return nil, errors.NewUserErrorWithHint(
			"no client cert data, cert path, token, or supported auth-provider found for current user",
			"check the kubeconfig's current user stanza, or regenerate credentials for this context",
		)
	}
}

func loadCA(c kubeconfig.ClusterDetail, b Builder) error {
	switch {
	case len(c.CertificateAuthorityData) > 0:
		if err := b.LoadCAData(c.CertificateAuthorityData); err != nil {
			return fmt.Errorf("load inline CA: %w", err)
		}
	case c.CertificateAuthorityPath != "":
		if err := b.LoadCA(c.CertificateAuthorityPath); err != nil {
			return fmt.Errorf("load CA from %s: %w", c.CertificateAuthorityPath, err)
		}
	}
	return nil
}

func resolveExec(e *kubeconfig.Exec, b Builder) (*Resolved, error) {
	run := func() (*ExecCredential, error) {
		cmd := exec.Command(e.Command, e.Args...)
		out, err := cmd.Output()
		if err != nil {
			return nil, errors.WrapUserErrorWithHint(
				fmt.Sprintf("exec credential plugin %s", e.Command),
				"confirm the plugin binary is installed and on PATH",
				err,
			)
		}
		var cred ExecCredential
		if err := json.Unmarshal(out, &cred); err != nil {
			return nil, fmt.Errorf("parse exec credential from %s %s: %w\nreply: %s", e.Command, strings.Join(e.Args, " "), err, string(out))
		}
		return &cred, nil
	}

	cred, err := run()
	if err != nil {
		return nil, err
	}

	if cred.Status.ClientCertificateData != "" {
		certPEM, err := base64.StdEncoding.DecodeString(cred.Status.ClientCertificateData)
		if err != nil {
			return nil, fmt.Errorf("base64 decode exec clientCertificateData: %w", err)
		}
		keyPEM, err := base64.StdEncoding.DecodeString(cred.Status.ClientKeyData)
		if err != nil {
			return nil, fmt.Errorf("base64 decode exec clientKeyData: %w", err)
		}
		if err := b.LoadClientCertData(certPEM, keyPEM); err != nil {
			return nil, fmt.Errorf("load exec client cert: %w", err)
		}
	}

	return &Resolved{
		Token: cred.Status.Token,
		TokenRefresh: func() (string, error) {
			klog.V(4).Info("re-invoking exec credential plugin after token expiry")
			c, err := run()
			if err != nil {
				return "", err
			}
			return c.Status.Token, nil
		},
	}, nil
}

func resolveInlineCert(u kubeconfig.UserDetail, b Builder) (*Resolved, error) {
	if len(u.ClientKeyData) == 0 {
		return nil, errors.NewUserError("current user has client-certificate-data but no client-key-data")
	}
	if err := b.LoadClientCertData(u.ClientCertificateData, u.ClientKeyData); err != nil {
		return nil, errors.WrapUserError("load inline client cert", err)
	}
	return &Resolved{}, nil
}

func resolveCertPath(u kubeconfig.UserDetail, b Builder) (*Resolved, error) {
	if u.ClientKeyPath == "" {
		return nil, errors.NewUserError("current user has client-certificate but no client-key")
	}
	if err := b.LoadClientCert(u.ClientCertificatePath, u.ClientKeyPath); err != nil {
		return nil, errors.WrapUserErrorWithHint(
			fmt.Sprintf("load client cert %s / %s", u.ClientCertificatePath, u.ClientKeyPath),
			"check both paths exist and are readable",
			err,
		)
	}
	return &Resolved{}, nil
}

// resolveGCP wraps the cached access token (if any) as an oauth2.Token
// so its Valid() method decides whether the helper command needs to
// run at all, mirroring the persisting-token-source pattern the
// teacher uses for its own OAuth2 session (internal/authutil), applied
// here to the GCP auth-provider's cache fields instead of a keyring.
func resolveGCP(gcp *kubeconfig.GCPAuthProvider) (*Resolved, error) {
	fetch := func() (string, error) {
		cmd := exec.Command(gcp.CmdPath, strings.Fields(gcp.CmdArgs)...)
		out, err := cmd.Output()
		if err != nil {
			return "", errors.WrapUserErrorWithHint(
				fmt.Sprintf("gcp auth-provider command %s", gcp.CmdPath),
				"confirm gcloud (or the configured cmd-path) is installed and authenticated",
				err,
			)
		}
		var resp gcpAuthResponse
		if err := json.Unmarshal(out, &resp); err != nil {
			return "", errors.WrapUserError("parse gcp auth-provider token response", err)
		}
		if resp.Credential.AccessToken == "" {
			return "", errors.NewUserError("gcp auth-provider response had no credential.access_token")
		}
		return resp.Credential.AccessToken, nil
	}

	cached := cachedGCPToken(gcp)
	if cached.Valid() {
		klog.V(4).Info("reusing cached gcp auth-provider token, still valid")
		return &Resolved{Token: cached.AccessToken, TokenRefresh: fetch}, nil
	}

	token, err := fetch()
	if err != nil {
		return nil, err
	}
	return &Resolved{
		Token:        token,
		TokenRefresh: fetch,
	}, nil
}

func cachedGCPToken(gcp *kubeconfig.GCPAuthProvider) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: gcp.AccessToken}
	if gcp.Expiry != "" {
		if expiry, err := time.Parse(time.RFC3339, gcp.Expiry); err == nil {
			tok.Expiry = expiry
		}
	}
	return tok
}
