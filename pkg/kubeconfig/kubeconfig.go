// Package kubeconfig loads and models the credential configuration a
// client resolves against: either a kubeconfig file (local/remote
// development) or an in-cluster pod service account. Parsing the
// kubeconfig YAML document itself is delegated to
// k8s.io/client-go/tools/clientcmd, which is the schema's reference
// parser; this package owns the in-memory model and the priority
// rules the rest of the module resolves credentials against.
package kubeconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"go.datum.net/k8sclient/internal/errors"
)

// ServiceAccountDir is the well-known mount point for an in-cluster
// pod's service account credentials.
const ServiceAccountDir = "/var/run/secrets/kubernetes.io/serviceaccount"

// Exec describes an exec-plugin credential source: the client runs
// Command with Args and decodes an ExecCredential document from its
// stdout.
type Exec struct {
	APIVersion string
	Command    string
	Args       []string
}

// GCPAuthProvider describes the gcp auth-provider plugin: a helper
// command is invoked and its JSON stdout's credential.access_token
// field is used as the bearer token. AccessToken/Expiry are the
// cached values the kubeconfig may already carry from a previous run,
// letting the resolver skip re-invoking the command while they're
// still valid.
type GCPAuthProvider struct {
	CmdPath     string
	CmdArgs     string
	AccessToken string
	Expiry      string // RFC3339, empty if never cached
}

// UserDetail is the resolved, tagged union of ways a kubeconfig user
// stanza may carry credentials. Every one of Exec, GCPAuthProvider,
// inline cert/key data, cert/key file paths, and Token that the stanza
// sets is populated; CredentialResolver in pkg/credentials decides
// which one wins when more than one is present.
type UserDetail struct {
	Exec            *Exec
	GCPAuthProvider *GCPAuthProvider
	// ClientCertificateData/ClientKeyData hold raw, already-decoded PEM
	// bytes: clientcmd base64-decodes the YAML document's
	// client-certificate-data/client-key-data fields while loading, so
	// there is no base64 layer left for this package's consumers to
	// undo.
	ClientCertificateData []byte
	ClientKeyData         []byte
	ClientCertificatePath string
	ClientKeyPath         string
	Token                 string
}

// ClusterDetail is the resolved cluster stanza a context points at.
type ClusterDetail struct {
	Server                string
	InsecureSkipTLSVerify bool
	// CertificateAuthorityData holds raw, already-decoded PEM bytes; see
	// the equivalent note on UserDetail.
	CertificateAuthorityData []byte
	CertificateAuthorityPath string
}

// Kubeconfig is the in-memory model of a parsed kubeconfig document,
// reduced to the fields this client resolves credentials and builds
// requests against.
type Kubeconfig struct {
	Path           string
	CurrentContext string
	Cluster        ClusterDetail
	User           UserDetail
	Namespace      string
}

// PodConfig is the credential source for a process running inside a
// cluster, read from the service account token the kubelet mounts
// into every pod.
type PodConfig struct {
	Token     string
	Namespace string
	CAPath    string
	Host      string
}

// Load resolves the active configuration: an in-cluster pod service
// account takes priority (a process either is or isn't running inside
// a cluster), falling back to the kubeconfig file named by path, or by
// the KUBECONFIG environment variable, or ~/.kube/config.
func Load(path string) (*Kubeconfig, *PodConfig, error) {
	if pod, ok, err := loadPodConfig(); err != nil {
		return nil, nil, err
	} else if ok {
		return nil, pod, nil
	}

	kc, err := loadKubeconfig(path)
	if err != nil {
		return nil, nil, err
	}
	return kc, nil, nil
}

func loadPodConfig() (*PodConfig, bool, error) {
	tokenPath := filepath.Join(ServiceAccountDir, "token")
	if _, err := os.Stat(tokenPath); err != nil {
		return nil, false, nil
	}

	token, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, false, errors.WrapUserError("read service account token", err)
	}

	namespace, err := os.ReadFile(filepath.Join(ServiceAccountDir, "namespace"))
	if err != nil {
		return nil, false, errors.WrapUserError("read service account namespace", err)
	}

	host := os.Getenv("KUBERNETES_SERVICE_HOST")
	port := os.Getenv("KUBERNETES_SERVICE_PORT")
	if host == "" || port == "" {
		return nil, false, errors.NewUserErrorWithHint(
			"in-cluster service account token present but KUBERNETES_SERVICE_HOST/PORT unset",
			"this only happens when /var/run/secrets/kubernetes.io/serviceaccount/token exists outside a pod; pass --kubeconfig or set KUBECONFIG instead",
		)
	}

	return &PodConfig{
		Token:     strings.TrimSpace(string(token)),
		Namespace: strings.TrimSpace(string(namespace)),
		CAPath:    filepath.Join(ServiceAccountDir, "ca.crt"),
		Host:      fmt.Sprintf("https://%s:%s", host, port),
	}, true, nil
}

func resolvePath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return strings.Split(env, string(os.PathListSeparator))[0]
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}

func loadKubeconfig(path string) (*Kubeconfig, error) {
	resolved := resolvePath(path)
	if resolved == "" {
		return nil, errors.NewUserErrorWithHint(
			"no kubeconfig path given and HOME is unset",
			"pass --kubeconfig explicitly or set the KUBECONFIG environment variable",
		)
	}

	raw, err := clientcmd.LoadFromFile(resolved)
	if err != nil {
		return nil, errors.WrapUserErrorWithHint(
			fmt.Sprintf("load kubeconfig %s", resolved),
			"check the file exists and is readable, or point --kubeconfig at a different file",
			err,
		)
	}

	kc, err := fromAPIConfig(raw)
	if err != nil {
		return nil, err
	}
	kc.Path = resolved
	return kc, nil
}

func fromAPIConfig(raw *clientcmdapi.Config) (*Kubeconfig, error) {
	ctxName := raw.CurrentContext
	ctx, ok := raw.Contexts[ctxName]
	if !ok {
		return nil, errors.NewUserErrorWithHint(
			fmt.Sprintf("no current context %q in kubeconfig", ctxName),
			"set current-context in the kubeconfig, or switch with `kubectl config use-context`",
		)
	}

	cluster, ok := raw.Clusters[ctx.Cluster]
	if !ok {
		return nil, errors.NewUserError(fmt.Sprintf("context %q refers to unknown cluster %q", ctxName, ctx.Cluster))
	}

	user, ok := raw.AuthInfos[ctx.AuthInfo]
	if !ok {
		return nil, errors.NewUserError(fmt.Sprintf("context %q refers to unknown user %q", ctxName, ctx.AuthInfo))
	}

	ud := UserDetail{
		ClientCertificatePath: user.ClientCertificate,
		ClientKeyPath:         user.ClientKey,
		Token:                 user.Token,
	}
	if len(user.ClientCertificateData) > 0 {
		ud.ClientCertificateData = user.ClientCertificateData
	}
	if len(user.ClientKeyData) > 0 {
		ud.ClientKeyData = user.ClientKeyData
	}
	if user.Exec != nil {
		ud.Exec = &Exec{
			APIVersion: user.Exec.APIVersion,
			Command:    user.Exec.Command,
			Args:       user.Exec.Args,
		}
	}
	if user.AuthProvider != nil && user.AuthProvider.Name == "gcp" {
		ud.GCPAuthProvider = &GCPAuthProvider{
			CmdPath:     user.AuthProvider.Config["cmd-path"],
			CmdArgs:     user.AuthProvider.Config["cmd-args"],
			AccessToken: user.AuthProvider.Config["access-token"],
			Expiry:      user.AuthProvider.Config["expiry"],
		}
	}

	cd := ClusterDetail{
		Server:                   cluster.Server,
		InsecureSkipTLSVerify:    cluster.InsecureSkipTLSVerify,
		CertificateAuthorityPath: cluster.CertificateAuthority,
	}
	if len(cluster.CertificateAuthorityData) > 0 {
		cd.CertificateAuthorityData = cluster.CertificateAuthorityData
	}

	namespace := ctx.Namespace
	if namespace == "" {
		namespace = "default"
	}

	return &Kubeconfig{
		CurrentContext: ctxName,
		Cluster:        cd,
		User:           ud,
		Namespace:      namespace,
	}, nil
}

// Save reloads the kubeconfig file at its recorded Path and writes that
// document back through clientcmd's writer. The fields of k itself
// (CurrentContext, Cluster, User, Namespace) are not written to the
// file, and comments and formatting in the file are not preserved.
func (k *Kubeconfig) Save() error {
	if k.Path == "" {
		return errors.NewUserError("kubeconfig has no path to save to")
	}
	raw, err := clientcmd.LoadFromFile(k.Path)
	if err != nil {
		return errors.WrapUserError(fmt.Sprintf("reload kubeconfig %s before save", k.Path), err)
	}
	if err := clientcmd.WriteToFile(*raw, k.Path); err != nil {
		return errors.WrapUserError(fmt.Sprintf("write kubeconfig %s", k.Path), err)
	}
	return nil
}
