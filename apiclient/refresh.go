package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/dental-session-client/internal/errors"
)

// refresh obtains a usable access token after staleToken was rejected.
//
// If another call has already replaced staleToken, the current token is
// returned without contacting the server. Otherwise concurrent callers holding
// the same refresh token share a single in-flight refresh request.
func (c *Client) refresh(ctx context.Context, staleToken string) (string, error) {
	current := c.sessions.Session()
	if current.AccessToken != "" && current.AccessToken != staleToken {
		return current.AccessToken, nil
	}
	if current.RefreshToken == "" {
		return "", c.expire(errNoRefreshToken)
	}

	// The shared refresh must not be cancelled by whichever caller started it.
	shared := context.WithoutCancel(ctx)
	v, err, joined := c.refreshGroup.Do(current.RefreshToken, func() (any, error) {
		return c.exchangeRefreshToken(shared, current.RefreshToken)
	})
	if joined {
		log.Debug().Msg("joined in-flight token refresh")
	}
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			return "", err
		}
		return "", c.expire(err)
	}

	resp := v.(*RefreshResponse)
	if err := c.sessions.UpdateTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return "", c.expire(err)
	}
	return resp.AccessToken, nil
}

func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	log.Debug().Msg("refreshing access token")

	resp, err := c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   RouteAuthRefresh,
		Body:   RefreshRequest{RefreshToken: refreshToken},
	}, "")
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidRefreshToken, newRequestFailed(resp.status, resp.body, "token refresh failed"))
	}

	var out RefreshResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("[apiclient refresh] decode: %w", err)
	}
	if out.AccessToken == "" {
		return nil, errEmptyRefreshedToken
	}
	return &out, nil
}

func parseErrorMessage(body []byte) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	return eb.text()
}
