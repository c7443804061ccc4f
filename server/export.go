package server

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	predictplot "github.com/aouyang1/go-predictplot"
)

const (
	exportSheet       = "Dataset"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteDatasetXLSX writes the dataset as a single sheet workbook with one row per point
func WriteDatasetXLSX(w io.Writer, ds predictplot.ChartDataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("unable to name sheet, %w", err)
	}
	header := []interface{}{predictplot.AxisXName, predictplot.AxisYName, "Type"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("unable to write header, %w", err)
	}

	for i := 0; i < ds.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{ds.X[i], ds.Y[i], ds.Labels[i]}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("unable to write row %d, %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("unable to write workbook, %w", err)
	}
	return nil
}
