// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"math"
	"strconv"

	"wellplot/cli/internal/analysis"
	"wellplot/cli/internal/session"
)

// BuildForm maps parameters onto the request fields of stage. Optional values
// that are absent are left out.
func BuildForm(stage Stage, p session.Params) *analysis.Form {
	f := analysis.NewForm()
	switch stage {
	case session.StageCombo:
		f.Set("figure_height", strconv.Itoa(int(math.Round(p.Plot.FigureHeight))))
	case session.StageVCL:
		l := p.Log
		f.SetOptional("gr_clean", l.GRClean).
			SetOptional("gr_clay", l.GRClay).
			SetOptional("sp_clean", l.SPClean).
			SetOptional("sp_clay", l.SPClay).
			SetOptional("rt_clean", l.RTClean).
			SetOptional("rt_clay", l.RTClay).
			SetOptional("neut_clean1", l.NeutClean1).
			SetOptional("neut_clean2", l.NeutClean2).
			SetOptional("neut_clay", l.NeutClay).
			SetOptional("den_clean1", l.DenClean1).
			SetOptional("den_clean2", l.DenClean2).
			SetOptional("den_clay", l.DenClay).
			Set("correction_gr", p.Plot.CorrectionGR)
	case session.StagePHI:
		// The porosity model names its endpoints matrix/fluid/shale; they are
		// the same picks as the VCL clean/clay points.
		l := p.Log
		f.SetOptional("neut_sh", l.NeutClay).
			SetOptional("den_ma", l.DenClean1).
			SetOptional("den_fl", l.DenClean2).
			SetOptional("den_sh", l.DenClay).
			SetOptional("dt_ma", l.DTMa).
			SetOptional("dt_fl", l.DTFl).
			SetOptional("dt_sh", l.DTSh).
			SetFloat("cp", p.Res.Cp).
			SetFloat("alpha", p.Res.Alpha).
			Set("vcl_select", p.Plot.VCLSelect)
	case session.StagePickett:
		f.Set("phi_select", p.Plot.PHISelect)
	case session.StageSW:
		r := p.Res
		f.SetOptional("rsh", r.Rsh).
			SetOptional("mid_perf_md", r.MidPerfMD).
			SetFloat("rw", r.Rw).
			SetFloat("a", r.A).
			SetFloat("m", r.M).
			SetFloat("n", r.N).
			SetFloat("mid_perf_bht", r.MidPerfBHT).
			SetFloat("surface_temp", r.SurfaceTemp).
			Set("phi_select", p.Plot.PHISelect)
	case session.StageCutoff, session.StageInterpretation:
		f.SetFloat("sw_cutoff", p.Res.SWCutoff).
			SetFloat("vcl_cutoff", p.Res.VCLCutoff).
			SetFloat("phi_cutoff", p.Res.PHICutoff).
			Set("sw_select", p.Plot.SWSelect)
	}
	return f
}
