// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

// Stage names one remote analysis step.
type Stage string

const (
	StageCombo          Stage = "combo"
	StageVCL            Stage = "vcl"
	StagePHI            Stage = "phi"
	StagePickett        Stage = "pickett"
	StageSW             Stage = "sw"
	StageCutoff         Stage = "cutoff"
	StageInterpretation Stage = "interpretation"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageCombo, StageVCL, StagePHI, StagePickett, StageSW, StageCutoff, StageInterpretation}

// ParseStage maps a user-supplied name to a Stage.
func ParseStage(s string) (Stage, bool) {
	for _, st := range Stages {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// ProducesTable reports whether a successful response replaces the curve table.
func (s Stage) ProducesTable() bool {
	switch s {
	case StageCombo, StageVCL, StagePHI, StageSW, StageCutoff:
		return true
	}
	return false
}

// Field names published on the change bus.
const (
	FieldTable          = "table"
	FieldMetadata       = "metadata"
	FieldMessage        = "message"
	FieldInterpretation = "interpretation"
)

// FlagField is the change key of a stage completion flag.
func FlagField(s Stage) string { return "flags." + string(s) }

// OptionsField is the change key of a stage's dropdown options.
func OptionsField(s Stage) string { return "options." + string(s) }

// ParamField is the change key of a parameter, by wire name.
func ParamField(name string) string { return "params." + name }
