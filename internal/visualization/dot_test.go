package visualization

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/offero/disim/internal/network"
	"github.com/offero/disim/internal/stats"
)

// testNetwork builds a 2-core, 3-periphery network with one adopted core
// node that influenced an adopted peripheral neighbor.
func testNetwork(t *testing.T) *network.Network {
	t.Helper()
	net := network.New(2, 3)
	net.AddTie(0, 1)
	net.AddTie(0, 2)
	net.AddTie(2, 3)

	net.Agent(0).Adopted = true
	a := net.Agent(2)
	a.Adopted = true
	a.Influence = []int64{0}
	a.Weak = true
	net.Agent(3).PressurePoint = true
	b := net.Agent(4)
	b.Weak = true
	b.PressurePoint = true
	return net
}

func TestRenderDOT(t *testing.T) {
	dot := RenderDOT(testNetwork(t))

	for _, want := range []string{
		"graph diffusion {",
		"subgraph cluster_core {",
		`"0" [fillcolor="dodgerblue", color="black"`,
		`"1" [fillcolor="firebrick1", color="black"`,
		`"2" [fillcolor="dodgerblue", color="yellow"`,
		`"3" [fillcolor="firebrick1", color="green"`,
		`"4" [fillcolor="firebrick1", color="#CF27CD"`,
		`"0" -- "1";`,
		`"2" -- "3";`,
		`"0" -- "2" [dir=forward, color="#1E90FFAF", penwidth=4];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q\n%s", want, dot)
		}
	}
}

func TestParseFilter(t *testing.T) {
	for _, s := range []string{"all", "wpp", "none"} {
		if _, err := ParseFilter(s); err != nil {
			t.Errorf("ParseFilter(%q): %v", s, err)
		}
	}
	if _, err := ParseFilter("some"); err == nil {
		t.Error("ParseFilter accepted unknown filter")
	}
}

func TestDOTRendererFilter(t *testing.T) {
	net := testNetwork(t)
	plain := stats.TrialRow{PeripheralTies: 3, Ambiguity: 2, Trial: 1}
	flagged := stats.TrialRow{PeripheralTies: 3, Ambiguity: 2, Trial: 2, Weaknesses: 1}

	cases := []struct {
		filter Filter
		row    stats.TrialRow
		want   bool
	}{
		{FilterAll, plain, true},
		{FilterAll, flagged, true},
		{FilterWPP, plain, false},
		{FilterWPP, flagged, true},
		{FilterNone, flagged, false},
	}
	for _, tc := range cases {
		dir := t.TempDir()
		r := &DOTRenderer{Dir: dir, Filter: tc.filter}
		if err := r.RenderTrial(net, tc.row); err != nil {
			t.Fatalf("RenderTrial(%s): %v", tc.filter, err)
		}
		_, err := os.Stat(filepath.Join(dir, FileName(tc.row)))
		if got := err == nil; got != tc.want {
			t.Errorf("filter %s trial %+v: file written = %v, want %v",
				tc.filter, tc.row, got, tc.want)
		}
	}
}

func TestFileName(t *testing.T) {
	row := stats.TrialRow{PeripheralTies: 15, Ambiguity: 3, Trial: 42}
	if got, want := FileName(row), "Graph-pties15-amb3-trial42.dot"; got != want {
		t.Fatalf("FileName = %q, want %q", got, want)
	}
}
