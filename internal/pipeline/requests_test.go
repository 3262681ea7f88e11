// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"testing"

	"wellplot/cli/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestBuildForm(t *testing.T) {
	p := session.DefaultParams()
	p.Plot.FigureHeight = 24.6
	p.Log.NeutClay = session.Float(0.35)
	p.Log.DenClean1 = session.Float(2.65)
	p.Log.DenClay = session.Float(2.45)
	p.Res.Rsh = session.Float(2)

	tests := []struct {
		stage   Stage
		want    map[string]string
		missing []string
	}{
		{
			stage: session.StageCombo,
			want:  map[string]string{"figure_height": "25"},
		},
		{
			stage:   session.StageVCL,
			want:    map[string]string{"neut_clay": "0.35", "den_clean1": "2.65", "correction_gr": "young"},
			missing: []string{"gr_clean", "sp_clay", "den_clean2"},
		},
		{
			stage:   session.StagePHI,
			want:    map[string]string{"neut_sh": "0.35", "den_ma": "2.65", "den_sh": "2.45", "cp": "1", "alpha": "0.67", "vcl_select": "gr"},
			missing: []string{"den_fl", "dt_ma"},
		},
		{
			stage: session.StagePickett,
			want:  map[string]string{"phi_select": "neutron_density"},
		},
		{
			stage:   session.StageSW,
			want:    map[string]string{"rsh": "2", "rw": "0.08", "m": "2", "mid_perf_bht": "210", "surface_temp": "60"},
			missing: []string{"mid_perf_md"},
		},
		{
			stage: session.StageCutoff,
			want:  map[string]string{"sw_cutoff": "0.8", "vcl_cutoff": "0.2", "phi_cutoff": "0.2", "sw_select": "archie"},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			f := BuildForm(tt.stage, p)
			for k, v := range tt.want {
				got, ok := f.Get(k)
				if assert.True(t, ok, "field %s", k) {
					assert.Equal(t, v, got, "field %s", k)
				}
			}
			for _, k := range tt.missing {
				_, ok := f.Get(k)
				assert.False(t, ok, "absent %s must be omitted", k)
			}
		})
	}
}
