package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/kilianp07/foundry/core/evaluator"
)

type instanceJSON struct {
	ID         int   `json:"id"`
	Score      int   `json:"score"`
	Nodes      int   `json:"nodes"`
	Pruned     int   `json:"pruned"`
	Duplicates int   `json:"duplicates"`
	Capped     int   `json:"capped"`
	Exhaustive bool  `json:"exhaustive"`
	ElapsedMS  int64 `json:"elapsed_ms"`
}

type reportJSON struct {
	RunID      string         `json:"run_id"`
	Mode       string         `json:"mode"`
	Horizon    int            `json:"horizon"`
	Value      int            `json:"value"`
	Exhaustive bool           `json:"exhaustive"`
	Started    time.Time      `json:"started"`
	ElapsedMS  int64          `json:"elapsed_ms"`
	MeanScore  float64        `json:"mean_score"`
	StdDev     float64        `json:"stddev_score"`
	TotalNodes int            `json:"total_nodes"`
	Instances  []instanceJSON `json:"instances"`
}

// WriteJSON writes the report to w in JSON format.
func WriteJSON(w io.Writer, rep evaluator.Report) error {
	out := reportJSON{
		RunID:      rep.RunID,
		Mode:       string(rep.Mode),
		Horizon:    rep.Horizon,
		Value:      rep.Value,
		Exhaustive: rep.Exhaustive,
		Started:    rep.Started.UTC(),
		ElapsedMS:  rep.Summary.Elapsed.Milliseconds(),
		MeanScore:  rep.Summary.MeanScore,
		StdDev:     rep.Summary.StdDevScore,
		TotalNodes: rep.Summary.TotalNodes,
		Instances:  make([]instanceJSON, len(rep.Instances)),
	}
	for i, in := range rep.Instances {
		out.Instances[i] = instanceJSON{
			ID:         in.ID,
			Score:      in.Result.Score,
			Nodes:      in.Result.Nodes,
			Pruned:     in.Result.Pruned,
			Duplicates: in.Result.Duplicates,
			Capped:     in.Result.Capped,
			Exhaustive: in.Result.Exhaustive,
			ElapsedMS:  in.Result.Elapsed.Milliseconds(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteCSV writes one row per instance to w in CSV format.
func WriteCSV(w io.Writer, rep evaluator.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "id", "score", "nodes", "pruned", "duplicates", "capped", "exhaustive", "elapsed_ms"}); err != nil {
		return err
	}
	for _, in := range rep.Instances {
		rec := []string{
			rep.RunID,
			strconv.Itoa(in.ID),
			strconv.Itoa(in.Result.Score),
			strconv.Itoa(in.Result.Nodes),
			strconv.Itoa(in.Result.Pruned),
			strconv.Itoa(in.Result.Duplicates),
			strconv.Itoa(in.Result.Capped),
			strconv.FormatBool(in.Result.Exhaustive),
			strconv.FormatInt(in.Result.Elapsed.Milliseconds(), 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes an aligned table followed by the aggregate value.
func WriteText(w io.Writer, rep evaluator.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCORE\tNODES\tPRUNED\tELAPSED\t")
	for _, in := range rep.Instances {
		mark := ""
		if !in.Result.Exhaustive {
			mark = " (partial)"
		}
		fmt.Fprintf(tw, "%d\t%d%s\t%d\t%d\t%s\t\n", in.ID, in.Result.Score, mark,
			in.Result.Nodes, in.Result.Pruned, in.Result.Elapsed.Round(time.Microsecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	qualifier := ""
	if !rep.Exhaustive {
		qualifier = " (lower bound)"
	}
	_, err := fmt.Fprintf(w, "%s = %d%s\n", rep.Mode, rep.Value, qualifier)
	return err
}

// Write dispatches on format: json, csv or text.
func Write(w io.Writer, rep evaluator.Report, format string) error {
	switch format {
	case "json":
		return WriteJSON(w, rep)
	case "csv":
		return WriteCSV(w, rep)
	case "", "text":
		return WriteText(w, rep)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
