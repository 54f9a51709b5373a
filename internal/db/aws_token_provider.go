package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// AWSIAMTokenProvider builds RDS IAM auth tokens from the default AWS
// credential chain.
type AWSIAMTokenProvider struct {
	endpoint string
	region   string
	username string
}

// NewAWSIAMTokenProvider validates the RDS endpoint (host:port), region and
// database user.
func NewAWSIAMTokenProvider(endpoint, region, username string) (*AWSIAMTokenProvider, error) {
	switch {
	case endpoint == "":
		return nil, fmt.Errorf("AWS IAM auth requires an endpoint (host:port): %w", pgframe.ErrInvalidConfig)
	case region == "":
		return nil, fmt.Errorf("AWS IAM auth requires a region (use --aws-region or $AWS_REGION): %w", pgframe.ErrInvalidConfig)
	case username == "":
		return nil, fmt.Errorf("AWS IAM auth requires a database username: %w", pgframe.ErrInvalidConfig)
	}
	return &AWSIAMTokenProvider{endpoint: endpoint, region: region, username: username}, nil
}

func (p *AWSIAMTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	issued := time.Now()
	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, cfg.Credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}
	return token, issued.Add(rdsTokenLifetime), nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWSIAM(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}
