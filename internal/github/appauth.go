// MIT License
//
// Copyright (c) 2025 mthm112
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v66/github"
)

// AppConfig configures GitHub App authentication as an alternative to a
// personal access token.
type AppConfig struct {
	// AppID identifies the GitHub App.
	AppID int64
	// InstallationID identifies the installation on the repository owner.
	InstallationID int64
	// PrivateKeyPEM is the app's RSA private key in PEM form.
	PrivateKeyPEM []byte
	// APIBaseURL overrides the API endpoint for GitHub Enterprise.
	APIBaseURL string
}

func (c AppConfig) validate() error {
	if c.AppID == 0 {
		return fmt.Errorf("github: app id is required")
	}
	if c.InstallationID == 0 {
		return fmt.Errorf("github: installation id is required")
	}
	if len(c.PrivateKeyPEM) == 0 {
		return fmt.Errorf("github: app private key is required")
	}
	return nil
}

// NewAppClient creates a Client authenticated as a GitHub App installation.
// The installation token minted here is valid for an hour, far longer than
// one cleanup pass, so it is never refreshed.
func NewAppClient(ctx context.Context, cfg AppConfig, owner, repo string, perPage int) (Client, error) {
	token, err := installationToken(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(token, owner, repo, perPage)
}

// installationToken exchanges a short-lived app JWT for an installation
// access token
func installationToken(ctx context.Context, cfg AppConfig) (string, error) {
	if err := cfg.validate(); err != nil {
		return "", err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKeyPEM)
	if err != nil {
		return "", fmt.Errorf("github: parse app private key: %w", err)
	}

	// Issued slightly in the past to absorb clock skew; GitHub rejects
	// app JWTs that live longer than ten minutes.
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(cfg.AppID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
	}

	appJWT, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("github: sign app token: %w", err)
	}

	appClient := github.NewClient(nil).WithAuthToken(appJWT)
	if cfg.APIBaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.APIBaseURL, "/") + "/")
		if err != nil {
			return "", fmt.Errorf("github: parse api base url: %w", err)
		}
		appClient.BaseURL = base
	}

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, cfg.InstallationID, nil)
	if err != nil {
		return "", fmt.Errorf("github: create installation token: %w", err)
	}

	return token.GetToken(), nil
}
