package errors

import (
	"fmt"
	"testing"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rejected with body",
			err:  Rejectedf("sw", 500, `{"detail":"rw must be positive"}`+"\n"),
			want: "Failed to run sw stage. Status code: 500\nError details: {\"detail\":\"rw must be positive\"}",
		},
		{
			name: "rejected without body",
			err:  Rejectedf("sw", 422, ""),
			want: "Failed to run sw stage. Status code: 422",
		},
		{
			name: "data shape",
			err:  New(DataShape, "missing df_las"),
			want: "Unexpected sw response from the analysis service: missing df_las",
		},
		{
			name: "precondition",
			err:  New(Precondition, "phi has not completed"),
			want: "Cannot run sw stage: phi has not completed",
		},
		{
			name: "transport",
			err:  Wrap(Transport, "post", fmt.Errorf("dial tcp: connection refused")),
			want: "An error occurred: dial tcp: connection refused",
		},
		{
			name: "plain error",
			err:  fmt.Errorf("boom"),
			want: "An error occurred: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe("sw", tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("stage vcl: %w", New(DataShape, "missing message"))
	if got := KindOf(err); got != DataShape {
		t.Errorf("KindOf() = %q, want %q", got, DataShape)
	}
	if got := KindOf(fmt.Errorf("other")); got != "" {
		t.Errorf("KindOf() = %q, want empty", got)
	}
}
