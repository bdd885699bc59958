package adapters

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"

	"google.golang.org/genai"
)

// classifyRemoteError は通信クライアントから返った形の不明なエラーを domain の分類に正規化します。
// サービスが返したメッセージがあればそれを優先します。
func classifyRemoteError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return serviceError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return serviceError(*apiErrPtr, err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewRemoteError(domain.ErrNetwork, "the request to the image service timed out", err)
	case errors.Is(err, context.Canceled):
		return domain.NewRemoteError(domain.ErrNetwork, "the request to the image service was canceled", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.NewRemoteError(domain.ErrNetwork, fmt.Sprintf("network error: %v", err), err)
	}

	return domain.NewRemoteError(domain.ErrService, err.Error(), err)
}

func serviceError(apiErr genai.APIError, cause error) error {
	msg := apiErr.Message
	if msg == "" {
		msg = cause.Error()
	}
	if apiErr.Code != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, apiErr.Code)
	}
	return domain.NewRemoteError(domain.ErrService, msg, cause)
}
