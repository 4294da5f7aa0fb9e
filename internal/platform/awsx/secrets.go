// Package awsx wraps the AWS service clients used by the case-management
// server: Secrets Manager for startup secrets, SESv2 for outbound mail, and
// Cognito for account provisioning.
package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// LoadConfig builds the shared AWS SDK configuration for the given region.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// FetchSecret retrieves a secret string from Secrets Manager by name. Used at
// startup to resolve DATABASE_URL when DB_SECRET_NAME is configured.
func FetchSecret(ctx context.Context, cfg aws.Config, name string) (string, error) {
	client := secretsmanager.NewFromConfig(cfg)

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	return *out.SecretString, nil
}
