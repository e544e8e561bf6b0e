package coldchain

import (
	"fmt"
	"image/color"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ExportExcel writes the crop summaries and the regional spoilage pivot to a
// two-sheet workbook. Absent aggregates are written as "unavailable" in the
// summary sheet and left blank in the pivot — the zero-fill a heatmap might
// want is the renderer's call, not the data's.
func ExportExcel(ds *Dataset, path string) error {
	crops, err := ListDistinct(ds, ColCrop)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Crop_Summaries")

	headers := []string{"Crop", "Records", "Mean Optimal Temp (°C)", "Mean Weekly Spoilage (%)",
		"Top Storage 1", "Top Storage 2", "Top Storage 3"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Crop_Summaries", cell, header)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth("Crop_Summaries", col, col, 24)
	}

	for i, crop := range crops {
		summary := SummarizeCrop(ds, crop)
		row := i + 2
		f.SetCellValue("Crop_Summaries", fmt.Sprintf("A%d", row), summary.Crop)
		f.SetCellValue("Crop_Summaries", fmt.Sprintf("B%d", row), summary.Records)
		f.SetCellValue("Crop_Summaries", fmt.Sprintf("C%d", row), meanCell(summary.MeanOptimalTempC))
		f.SetCellValue("Crop_Summaries", fmt.Sprintf("D%d", row), meanCell(summary.MeanSpoilagePct))
		for j, ts := range summary.TopStorage {
			col, _ := excelize.ColumnNumberToName(5 + j)
			f.SetCellValue("Crop_Summaries", fmt.Sprintf("%s%d", col, row),
				fmt.Sprintf("%s (%d farms)", ts.Location, ts.Farms))
		}
	}

	f.NewSheet("Spoilage_Pivot")
	pivot := SpoilageByRegion(ds)

	f.SetCellValue("Spoilage_Pivot", "A1", "Farm Location")
	for j, crop := range pivot.Crops {
		cell, _ := excelize.CoordinatesToCellName(j+2, 1)
		f.SetCellValue("Spoilage_Pivot", cell, crop)
	}
	for i, loc := range pivot.Locations {
		row := i + 2
		f.SetCellValue("Spoilage_Pivot", fmt.Sprintf("A%d", row), loc)
		for j, crop := range pivot.Crops {
			mean, ok := pivot.Cells[loc][crop]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+2, row)
			f.SetCellValue("Spoilage_Pivot", cell, mean)
		}
	}

	return f.SaveAs(path)
}

func meanCell(mean *float64) string {
	if mean == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%.1f", *mean)
}

// ExportSpoilageChart draws mean weekly spoilage per crop as a bar chart PNG.
func ExportSpoilageChart(ds *Dataset, path string) error {
	crops, err := ListDistinct(ds, ColCrop)
	if err != nil {
		return err
	}

	var values plotter.Values
	var labels []string
	for _, crop := range crops {
		summary := SummarizeCrop(ds, crop)
		if summary.MeanSpoilagePct == nil {
			continue
		}
		values = append(values, *summary.MeanSpoilagePct)
		labels = append(labels, summary.Crop)
	}

	p := plot.New()
	p.Title.Text = "MEAN WEEKLY SPOILAGE BY CROP"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Crop"
	p.Y.Label.Text = "Spoilage (% per week)"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalX(labels...)
	p.Y.Min = 0

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}
