package secrets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SecretManagerSource reads the latest version of a Google Secret Manager secret.
// The client is created lazily on first use and shared afterwards.
type SecretManagerSource struct {
	projectID string
	opts      []option.ClientOption

	once      sync.Once
	client    *secretmanager.Client
	clientErr error
}

func NewSecretManagerSource(projectID string, opts ...option.ClientOption) *SecretManagerSource {
	return &SecretManagerSource{
		projectID: strings.TrimSpace(projectID),
		opts:      opts,
	}
}

func (s *SecretManagerSource) Get(ctx context.Context, name string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("secret manager source is nil")
	}
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: SecretVersionName(s.projectID, name),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	if resp.GetPayload() == nil {
		return "", fmt.Errorf("%w: %s has no payload", ErrNotFound, name)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func (s *SecretManagerSource) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *SecretManagerSource) getClient(ctx context.Context) (*secretmanager.Client, error) {
	s.once.Do(func() {
		// The client is shared by later calls; the first caller's deadline must not bind it.
		client, err := secretmanager.NewClient(context.WithoutCancel(ctx), s.opts...)
		if err != nil {
			s.clientErr = fmt.Errorf("create secret manager client: %w", err)
			return
		}
		s.client = client
	})
	return s.client, s.clientErr
}

// SecretVersionName builds the resource name of the latest version of a secret.
// Fully qualified names ("projects/...") are returned unchanged.
func SecretVersionName(projectID, name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.HasPrefix(trimmed, "projects/") {
		return trimmed
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", strings.TrimSpace(projectID), trimmed)
}
