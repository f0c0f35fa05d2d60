package models

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// TokenResponse is the client credentials grant response. expires_in arrives
// as a quoted number.
type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   jsoniter.Number `json:"expires_in"`
}

type TokenData struct {
	AccessToken string
	ExpiresAt   time.Time
}

func (resp *TokenResponse) ToTokenData(issued time.Time) (TokenData, error) {
	seconds, err := resp.ExpiresIn.Int64()
	if err != nil {
		return TokenData{}, decodeFailure(err, "token response: expires_in %q", resp.ExpiresIn)
	}
	if resp.AccessToken == "" {
		return TokenData{}, missingField("token response", "access_token")
	}
	return TokenData{
		AccessToken: resp.AccessToken,
		ExpiresAt:   issued.Add(time.Duration(seconds) * time.Second),
	}, nil
}
