package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/smartagri/seat-allocator/internal/config"
	"github.com/smartagri/seat-allocator/pkg/utils"
)

// Client wraps the Gmail API client
type Client struct {
	service      *gmail.Service
	ctx          context.Context
	userID       string
	sender       string
	interval     time.Duration
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a new Gmail client, performing the OAuth flow if no valid token is stored
// for the environment
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, emailCfg config.EmailConfig, env string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, env)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	return NewClientWithOptions(ctx, emailCfg, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
}

// NewClientWithOptions creates a Gmail client from explicit API options
func NewClientWithOptions(ctx context.Context, emailCfg config.EmailConfig, opts ...option.ClientOption) (*Client, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	userID := emailCfg.GmailUserID
	if userID == "" {
		userID = "me"
	}

	return &Client{
		service:  service,
		ctx:      ctx,
		userID:   userID,
		sender:   emailCfg.GmailSender,
		interval: EMAIL_INTERVAL,
	}, nil
}
