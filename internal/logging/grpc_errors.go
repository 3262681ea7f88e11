// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"

	"github.com/pterm/pterm"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RenderErrorType is the category of a remote renderer failure.
type RenderErrorType int

const (
	RenderErrorUnknown RenderErrorType = iota
	RenderErrorNetwork
	RenderErrorAuth
	RenderErrorTimeout
	RenderErrorRejected
	RenderErrorUnavailable
)

// ParseRenderError categorizes an error returned by the gRPC renderer.
// Status codes win; plain errors fall back to message inspection.
func ParseRenderError(err error) RenderErrorType {
	if err == nil {
		return RenderErrorUnknown
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable:
			return RenderErrorUnavailable
		case codes.DeadlineExceeded:
			return RenderErrorTimeout
		case codes.Unauthenticated, codes.PermissionDenied:
			return RenderErrorAuth
		case codes.InvalidArgument, codes.FailedPrecondition, codes.Unimplemented:
			return RenderErrorRejected
		}
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "rst_stream"), strings.Contains(lower, "connection reset"):
		return RenderErrorNetwork
	case strings.Contains(lower, "deadline"), strings.Contains(lower, "timeout"):
		return RenderErrorTimeout
	}
	return RenderErrorUnknown
}

// FormatRenderError turns a renderer failure into a short user-facing hint.
func FormatRenderError(target string, err error) string {
	var hint string
	switch ParseRenderError(err) {
	case RenderErrorUnavailable, RenderErrorNetwork:
		hint = "renderer is not reachable; check --render-addr or WELLPLOT_RENDER_ADDR"
	case RenderErrorTimeout:
		hint = "renderer did not answer in time"
	case RenderErrorAuth:
		hint = "renderer refused the credentials"
	case RenderErrorRejected:
		hint = "renderer rejected the chart specification"
	default:
		hint = "renderer failed"
	}
	var b strings.Builder
	b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprintf("⚠ %s: %s", target, hint))
	if err != nil {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("  Technical details: " + Mask(err.Error())))
	}
	return b.String()
}
