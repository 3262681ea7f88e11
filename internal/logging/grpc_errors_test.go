// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestParseRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RenderErrorType
	}{
		{"unavailable", status.Error(codes.Unavailable, "no connection"), RenderErrorUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), RenderErrorTimeout},
		{"auth", status.Error(codes.Unauthenticated, "who"), RenderErrorAuth},
		{"unimplemented", status.Error(codes.Unimplemented, "unknown method"), RenderErrorRejected},
		{"reset", errors.New("read: connection reset by peer"), RenderErrorNetwork},
		{"other", errors.New("boom"), RenderErrorUnknown},
		{"nil", nil, RenderErrorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRenderError(tt.err); got != tt.want {
				t.Errorf("ParseRenderError() = %v, want %v", got, tt.want)
			}
		})
	}
}
