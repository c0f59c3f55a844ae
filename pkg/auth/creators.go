package auth

import (
	"fmt"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/config"
	"github.com/PiotrLaszczyk/graphql-requests/pkg/errors"
)

// Creator functions for auth handlers

func createBasicAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Basic == nil {
		return nil, errors.WrapError(
			fmt.Errorf("basic auth configuration is required"),
			errors.ErrConfiguration,
			"create basic auth",
		)
	}
	return NewBasicAuth(authConfig.Basic.Username, authConfig.Basic.Password), nil
}

func createBearerAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Bearer == nil {
		return nil, errors.WrapError(
			fmt.Errorf("bearer token configuration is required"),
			errors.ErrConfiguration,
			"create bearer auth",
		)
	}
	return NewBearerAuth(authConfig.Bearer.Token), nil
}

func createTokenAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Token == nil {
		return nil, errors.WrapError(
			fmt.Errorf("token configuration is required"),
			errors.ErrConfiguration,
			"create token auth",
		)
	}
	return NewTokenAuth(authConfig.Token.Token), nil
}

func createAPIKeyAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.APIKey == nil {
		return nil, errors.WrapError(
			fmt.Errorf("api key configuration is required"),
			errors.ErrConfiguration,
			"create API key auth",
		)
	}
	return NewAPIKeyAuth(
		authConfig.APIKey.Header,
		authConfig.APIKey.QueryParam,
		authConfig.APIKey.Value,
	), nil
}
