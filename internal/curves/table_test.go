// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package curves

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTableRoundTrip(t *testing.T) {
	in := NewTable().
		With("MD", Floats(1000, 1000.5, 1001)).
		With("GR", []Value{Some(45.2), None(), Some(120)}).
		With("RHOB", Floats(2.31, 2.45, 2.6))

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"MD":[1000,1000.5,1001],"GR":[45.2,null,120],"RHOB":[2.31,2.45,2.6]}`; string(b) != want {
		t.Fatalf("marshal = %s, want %s", b, want)
	}

	var out Table
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, name := range in.Names() {
		want, _ := in.Curve(name)
		got, ok := out.Curve(name)
		if !ok {
			t.Fatalf("curve %s missing after round trip", name)
		}
		if len(got) != in.Len() {
			t.Errorf("curve %s has %d samples, want %d", name, len(got), in.Len())
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("curve %s = %v, want %v", name, got, want)
		}
	}
	gr, _ := out.Curve("GR")
	if gr[1].Valid || gr[1].V != 0 {
		t.Errorf("null sample decoded as %+v, want absent", gr[1])
	}
}

func TestTableKeepsKeyOrder(t *testing.T) {
	var tbl Table
	if err := json.Unmarshal([]byte(`{"MD":[1],"SWarchie":[0.5],"SW":[0.4],"SWindonesia":[0.3]}`), &tbl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"MD", "SWarchie", "SW", "SWindonesia"}
	if got := tbl.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   *Table
		wantErr bool
	}{
		{
			name:  "aligned",
			table: NewTable().With("MD", Floats(1, 2)).With("GR", Floats(3, 4)),
		},
		{
			name:    "ragged",
			table:   NewTable().With("MD", Floats(1, 2)).With("GR", Floats(3)),
			wantErr: true,
		},
		{
			name:    "missing depth",
			table:   NewTable().With("GR", Floats(3)),
			wantErr: true,
		},
		{
			name:    "nil table",
			table:   nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTableFilterKeepsAlignment(t *testing.T) {
	tbl := NewTable().
		With("MD", Floats(10, 20, 30)).
		With("VCL", Floats(0.1, 0.4, 0.2)).
		With("PHIE", []Value{Some(0.25), Some(0.05), None()})

	rows := tbl.Rows("VCL", func(v Value) bool { return v.Valid && v.V < 0.3 })
	if !reflect.DeepEqual(rows, []int{0, 2}) {
		t.Fatalf("Rows() = %v, want [0 2]", rows)
	}
	f := tbl.Filter(rows)
	md, _ := f.Curve("MD")
	phie, _ := f.Curve("PHIE")
	if !reflect.DeepEqual(md, Floats(10, 30)) {
		t.Errorf("MD = %v", md)
	}
	if !reflect.DeepEqual(phie, []Value{Some(0.25), None()}) {
		t.Errorf("PHIE = %v", phie)
	}
}

func TestTableMinMaxSkipsAbsent(t *testing.T) {
	tbl := NewTable().With("NPHI", []Value{None(), Some(0.3), Some(0.1), None(), Some(0.5)})
	if v, ok := tbl.Min("NPHI"); !ok || v != 0.1 {
		t.Errorf("Min = %v, %v", v, ok)
	}
	if v, ok := tbl.Max("NPHI"); !ok || v != 0.5 {
		t.Errorf("Max = %v, %v", v, ok)
	}
	if _, ok := tbl.Min("RHOB"); ok {
		t.Error("Min of a missing curve reported ok")
	}
	empty := NewTable().With("NPHI", []Value{None()})
	if _, ok := empty.Max("NPHI"); ok {
		t.Error("Max over only absent samples reported ok")
	}
}

func TestMetadataDecode(t *testing.T) {
	var md Metadata
	raw := `{"GR":{"unit":"GAPI","limits":[0,200]},"CALI":{"unit":"IN","limits":[null,12]},"VCL":{"unit":"V/V"}}`
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l := md.Limits("GR"); l == nil || l.Min != 0 || l.Max != 200 {
		t.Errorf("GR limits = %v", l)
	}
	if l := md.Limits("CALI"); l != nil {
		t.Errorf("CALI limits = %v, want nil", l)
	}
	if got := md.Title("VCL"); got != "VCL (V/V)" {
		t.Errorf("Title = %q", got)
	}
	if got := md.Title("DTC"); got != "DTC ()" {
		t.Errorf("Title of unknown curve = %q", got)
	}
	var nilMD Metadata
	if nilMD.Limits("GR") != nil || nilMD.Unit("GR") != "" {
		t.Error("nil metadata should behave as empty")
	}
}

func TestOptionsDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Options
	}{
		{
			name: "double encoded with text",
			raw:  `"[{\"value\": \"gr\", \"text\": \"Gamma Ray\"}]"`,
			want: Options{{Value: "gr", Label: "Gamma Ray"}},
		},
		{
			name: "plain array with label",
			raw:  `[{"value":"archie","label":"Archie"},{"value":"indo","text":"Indonesia"}]`,
			want: Options{{Value: "archie", Label: "Archie"}, {Value: "indo", Label: "Indonesia"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Options
			if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
