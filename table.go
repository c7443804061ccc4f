package predictplot

import (
	"fmt"
	"io"
	"text/tabwriter"
)

func indentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}

// TablePrint writes the dataset as an aligned text table, one row per point
func (ds ChartDataset) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sDataset:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if ds.Len() == 0 {
		_, err := fmt.Fprintf(w, "%s%sNone\n", prefix, indentExpand(indent, 1))
		return err
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tbl, "%s%sEntry Number\tValue\tType\t\n", prefix, indentExpand(indent, 1)); err != nil {
		return err
	}
	for i := 0; i < ds.Len(); i++ {
		if _, err := fmt.Fprintf(tbl, "%s%s%d\t%.5f\t%s\t\n",
			prefix, indentExpand(indent, 1),
			ds.X[i], ds.Y[i], ds.Labels[i],
		); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
