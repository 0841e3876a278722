package gcpinventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/elC0mpa/cloud-doctor/model"
)

// classify maps a Google API failure onto the inventory error taxonomy.
// Disabled APIs carry an enable link in HintURL.
func classify(err error, api, projectID string) error {
	if err == nil {
		return nil
	}
	var invErr *model.InventoryError
	if errors.As(err, &invErr) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			out := &model.InventoryError{
				Kind:    model.ErrKindPermissionDenied,
				Message: fmt.Sprintf("%s: %s", api, apiErr.Message),
				Err:     err,
			}
			if serviceDisabled(apiErr) {
				out.HintURL = activationURL(apiErr)
				if out.HintURL == "" {
					out.HintURL = EnableURL(api, projectID)
				}
			}
			return out
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return &model.InventoryError{Kind: model.ErrKindNetworkUnreachable, Message: fmt.Sprintf("%s unavailable (%d)", api, apiErr.Code), Err: err}
		}
		return &model.InventoryError{Kind: model.ErrKindMalformedResponse, Message: fmt.Sprintf("%s returned %d: %s", api, apiErr.Code, apiErr.Message), Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &model.InventoryError{Kind: model.ErrKindNetworkUnreachable, Message: fmt.Sprintf("%s unreachable", api), Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &model.InventoryError{Kind: model.ErrKindMalformedResponse, Message: fmt.Sprintf("%s response could not be decoded", api), Err: err}
	}

	return &model.InventoryError{Kind: model.ErrKindNetworkUnreachable, Message: err.Error(), Err: err}
}

// EnableURL is the console page that enables an API for a project
func EnableURL(api, projectID string) string {
	return fmt.Sprintf("https://console.cloud.google.com/apis/library/%s?project=%s", api, projectID)
}

func serviceDisabled(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		if item.Reason == "accessNotConfigured" || item.Reason == "SERVICE_DISABLED" {
			return true
		}
	}
	if reasonOf(apiErr) == "SERVICE_DISABLED" {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "has not been used") || strings.Contains(msg, "it is disabled")
}

// reasonOf returns the google.rpc.ErrorInfo reason from the error details
func reasonOf(apiErr *googleapi.Error) string {
	for _, d := range apiErr.Details {
		if m, ok := d.(map[string]any); ok {
			if reason, ok := m["reason"].(string); ok && reason != "" {
				return reason
			}
		}
	}
	return ""
}

// activationURL returns the activationUrl the API reports in ErrorInfo
// metadata, if any
func activationURL(apiErr *googleapi.Error) string {
	for _, d := range apiErr.Details {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		meta, ok := m["metadata"].(map[string]any)
		if !ok {
			continue
		}
		if u, ok := meta["activationUrl"].(string); ok && u != "" {
			return u
		}
	}
	return ""
}
