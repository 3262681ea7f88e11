// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"wellplot/cli/internal/curves"

	"github.com/go-playground/validator/v10"
)

// LogValues are the user-picked clean/clay baselines. Absent values are
// omitted from requests and the service picks its own.
type LogValues struct {
	GRClean    *float64 `json:"gr_clean,omitempty"`
	GRClay     *float64 `json:"gr_clay,omitempty"`
	SPClean    *float64 `json:"sp_clean,omitempty"`
	SPClay     *float64 `json:"sp_clay,omitempty"`
	RTClean    *float64 `json:"rt_clean,omitempty" validate:"omitempty,gt=0"`
	RTClay     *float64 `json:"rt_clay,omitempty" validate:"omitempty,gt=0"`
	NeutClean1 *float64 `json:"neut_clean1,omitempty"`
	NeutClean2 *float64 `json:"neut_clean2,omitempty"`
	NeutClay   *float64 `json:"neut_clay,omitempty"`
	DenClean1  *float64 `json:"den_clean1,omitempty" validate:"omitempty,gt=0"`
	DenClean2  *float64 `json:"den_clean2,omitempty" validate:"omitempty,gt=0"`
	DenClay    *float64 `json:"den_clay,omitempty" validate:"omitempty,gt=0"`
	DTMa       *float64 `json:"dt_ma,omitempty" validate:"omitempty,gt=0"`
	DTFl       *float64 `json:"dt_fl,omitempty" validate:"omitempty,gt=0"`
	DTSh       *float64 `json:"dt_sh,omitempty" validate:"omitempty,gt=0"`
}

// ResParams are reservoir parameters, pre-filled with defaults.
type ResParams struct {
	MidPerfMD   *float64 `json:"mid_perf_md,omitempty" validate:"omitempty,gt=0"`
	Rsh         *float64 `json:"rsh,omitempty" validate:"omitempty,gt=0"`
	Cp          float64  `json:"cp" validate:"gt=0"`
	Alpha       float64  `json:"alpha" validate:"gt=0"`
	VCLLimit    float64  `json:"vcl_limit" validate:"gte=0,lte=1"`
	Rw          float64  `json:"rw" validate:"gt=0"`
	A           float64  `json:"a" validate:"gt=0"`
	M           float64  `json:"m" validate:"gt=0"`
	N           float64  `json:"n" validate:"gt=0"`
	MidPerfBHT  float64  `json:"mid_perf_bht"`
	SurfaceTemp float64  `json:"surface_temp"`
	VCLCutoff   float64  `json:"vcl_cutoff" validate:"gte=0,lte=1"`
	PHICutoff   float64  `json:"phi_cutoff" validate:"gte=0,lte=1"`
	SWCutoff    float64  `json:"sw_cutoff" validate:"gte=0,lte=1"`
}

// PlotOptions are display choices plus the model variants offered by the service.
type PlotOptions struct {
	FigureHeight float64 `json:"figure_height" validate:"gt=0"`
	CorrectionGR string  `json:"correction_gr" validate:"required"`
	VCLSelect    string  `json:"vcl_select" validate:"required"`
	PHISelect    string  `json:"phi_select" validate:"required"`
	SWSelect     string  `json:"sw_select" validate:"required"`
	ZAxis        string  `json:"z_axis" validate:"required"`

	VCLOptions curves.Options `json:"-"`
	PHIOptions curves.Options `json:"-"`
	SWOptions  curves.Options `json:"-"`
}

// Params groups everything the user can edit between runs.
type Params struct {
	Log  LogValues
	Res  ResParams
	Plot PlotOptions
}

// DefaultParams returns the pre-filled parameter set.
func DefaultParams() Params {
	return Params{
		Res: ResParams{
			Cp:          1,
			Alpha:       0.67,
			VCLLimit:    0.5,
			Rw:          0.08,
			A:           1,
			M:           2,
			N:           2,
			MidPerfBHT:  210,
			SurfaceTemp: 60,
			VCLCutoff:   0.2,
			PHICutoff:   0.2,
			SWCutoff:    0.8,
		},
		Plot: PlotOptions{
			FigureHeight: 30,
			CorrectionGR: "young",
			VCLSelect:    "gr",
			PHISelect:    "neutron_density",
			SWSelect:     "archie",
			ZAxis:        "VCL",
		},
	}
}

var validate = validator.New()

// Validate checks ranges on every group.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// Clone copies p, including pointer fields and option lists.
func (p Params) Clone() Params {
	out := p
	cloneLog := func(dst, src reflect.Value) {
		for i := 0; i < src.NumField(); i++ {
			if f := src.Field(i); f.Kind() == reflect.Pointer && !f.IsNil() {
				v := f.Elem().Float()
				dst.Field(i).Set(reflect.ValueOf(&v))
			}
		}
	}
	cloneLog(reflect.ValueOf(&out.Log).Elem(), reflect.ValueOf(p.Log))
	cloneLog(reflect.ValueOf(&out.Res).Elem(), reflect.ValueOf(p.Res))
	out.Plot.VCLOptions = append(curves.Options(nil), p.Plot.VCLOptions...)
	out.Plot.PHIOptions = append(curves.Options(nil), p.Plot.PHIOptions...)
	out.Plot.SWOptions = append(curves.Options(nil), p.Plot.SWOptions...)
	return out
}

// ParamEntry is one editable parameter rendered as text.
type ParamEntry struct {
	Group string
	Name  string
	Value string
}

// Entries lists every parameter by wire name; absent values render as "".
func (p *Params) Entries() []ParamEntry {
	var out []ParamEntry
	for _, g := range p.groups() {
		t := g.v.Type()
		for i := 0; i < t.NumField(); i++ {
			name := wireName(t.Field(i))
			if name == "" {
				continue
			}
			out = append(out, ParamEntry{Group: g.name, Name: name, Value: formatField(g.v.Field(i))})
		}
	}
	return out
}

// Set assigns a parameter by wire name. For optional values an empty string
// clears the field.
func (p *Params) Set(name, value string) error {
	f, ok := p.lookup(name)
	if !ok {
		return fmt.Errorf("unknown parameter %q", name)
	}
	value = strings.TrimSpace(value)
	switch f.Kind() {
	case reflect.Pointer:
		if value == "" {
			f.Set(reflect.Zero(f.Type()))
			return nil
		}
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("parameter %s: %q is not a number", name, value)
		}
		f.Set(reflect.ValueOf(&x))
	case reflect.Float64:
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("parameter %s: %q is not a number", name, value)
		}
		f.SetFloat(x)
	case reflect.String:
		if value == "" {
			return fmt.Errorf("parameter %s must not be empty", name)
		}
		f.SetString(value)
	default:
		return fmt.Errorf("parameter %s is not settable", name)
	}
	return nil
}

// ParamNames returns every wire name, sorted.
func ParamNames() []string {
	p := DefaultParams()
	var names []string
	for _, e := range p.Entries() {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// LoadParamsFile applies a flat JSON object keyed by wire names onto p.
// Unknown keys are an error; null clears an optional value.
func LoadParamsFile(path string, p *Params) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var s string
		switch v := raw[k].(type) {
		case nil:
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			s = v
		default:
			return nil, fmt.Errorf("parameter %s: unsupported value %v", k, v)
		}
		if err := p.Set(k, s); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

type group struct {
	name string
	v    reflect.Value
}

func (p *Params) groups() []group {
	return []group{
		{"log", reflect.ValueOf(&p.Log).Elem()},
		{"reservoir", reflect.ValueOf(&p.Res).Elem()},
		{"plot", reflect.ValueOf(&p.Plot).Elem()},
	}
}

func (p *Params) lookup(name string) (reflect.Value, bool) {
	for _, g := range p.groups() {
		t := g.v.Type()
		for i := 0; i < t.NumField(); i++ {
			if wireName(t.Field(i)) == name {
				return g.v.Field(i), true
			}
		}
	}
	return reflect.Value{}, false
}

func wireName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

func formatField(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return strconv.FormatFloat(v.Elem().Float(), 'f', -1, 64)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.String:
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

// Float returns a pointer to x, for filling optional values.
func Float(x float64) *float64 { return &x }
