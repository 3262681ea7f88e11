// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package analysis

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"wellplot/cli/internal/curves"
	"wellplot/cli/internal/session"

	"github.com/go-playground/validator/v10"
)

// Result is the normalized outcome of a stage call.
type Result struct {
	Message string
	Table   *curves.Table
	Meta    curves.Metadata
	Options curves.Options
	Image   string
}

// schema is implemented by every per-stage response body.
type schema interface {
	result() Result
}

// TableResponse is returned by stages that recompute the curve table.
type TableResponse struct {
	Message    string          `json:"message" validate:"required"`
	Table      *curves.Table   `json:"df_las" validate:"required"`
	ColumnData curves.Metadata `json:"column_data"`
}

func (r *TableResponse) result() Result {
	return Result{Message: r.Message, Table: r.Table, Meta: r.ColumnData}
}

// VCLResponse is the body of the VCL stage.
type VCLResponse struct {
	TableResponse
	Dropdown curves.Options `json:"dropdown_vcl" validate:"required"`
}

func (r *VCLResponse) result() Result {
	res := r.TableResponse.result()
	res.Options = r.Dropdown
	return res
}

// PHIResponse is the body of the PHI stage.
type PHIResponse struct {
	TableResponse
	Dropdown curves.Options `json:"dropdown_phi" validate:"required"`
}

func (r *PHIResponse) result() Result {
	res := r.TableResponse.result()
	res.Options = r.Dropdown
	return res
}

// SWResponse is the body of the SW stage.
type SWResponse struct {
	TableResponse
	Dropdown curves.Options `json:"dropdown_sw" validate:"required"`
}

func (r *SWResponse) result() Result {
	res := r.TableResponse.result()
	res.Options = r.Dropdown
	return res
}

// MessageResponse is the body of the Pickett stage.
type MessageResponse struct {
	Message string `json:"message" validate:"required"`
}

func (r *MessageResponse) result() Result { return Result{Message: r.Message} }

// InterpretationResponse carries the server-rendered interpretation image.
type InterpretationResponse struct {
	Message string `json:"message" validate:"required"`
	Image   string `json:"interpretation_plot" validate:"required"`
}

func (r *InterpretationResponse) result() Result {
	return Result{Message: r.Message, Image: r.Image}
}

// newSchema returns an empty response body for stage. The cutoff stage also
// returns a server-rendered cutoff_plot, which is ignored; the chart is built
// locally.
func newSchema(stage session.Stage) (schema, bool) {
	switch stage {
	case session.StageCombo, session.StageCutoff:
		return &TableResponse{}, true
	case session.StageVCL:
		return &VCLResponse{}, true
	case session.StagePHI:
		return &PHIResponse{}, true
	case session.StageSW:
		return &SWResponse{}, true
	case session.StagePickett:
		return &MessageResponse{}, true
	case session.StageInterpretation:
		return &InterpretationResponse{}, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// missingKeys validates s and lists the offending response keys.
func missingKeys(s schema) ([]string, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	keys := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		keys = append(keys, fe.Field())
	}
	sort.Strings(keys)
	return keys, nil
}
