package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// IdentityProvider provisions and disables login accounts. The users service
// depends on this interface; in deployments without Cognito it is nil and
// account provisioning is skipped.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email string) error
	DisableAccount(ctx context.Context, email string) error
}

// CognitoProvider implements IdentityProvider over a Cognito user pool.
type CognitoProvider struct {
	client *cognitoidentityprovider.Client
	poolID string
}

func NewCognitoProvider(cfg aws.Config, poolID string) *CognitoProvider {
	return &CognitoProvider{
		client: cognitoidentityprovider.NewFromConfig(cfg),
		poolID: poolID,
	}
}

// CreateAccount creates a Cognito user and lets Cognito deliver the
// temporary-password invite email.
func (p *CognitoProvider) CreateAccount(ctx context.Context, email string) error {
	_, err := p.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId: aws.String(p.poolID),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	if err != nil {
		return fmt.Errorf("cognito create user %s: %w", email, err)
	}
	return nil
}

func (p *CognitoProvider) DisableAccount(ctx context.Context, email string) error {
	_, err := p.client.AdminDisableUser(ctx, &cognitoidentityprovider.AdminDisableUserInput{
		UserPoolId: aws.String(p.poolID),
		Username:   aws.String(email),
	})
	if err != nil {
		return fmt.Errorf("cognito disable user %s: %w", email, err)
	}
	return nil
}
