package main

import (
	"flag"
	"fmt"
	"log"

	coldchain "coldchain-backend"
)

func main() {
	var (
		input = flag.String("input", "TEAM_DSS_Dataset.csv", "path to the dataset CSV")
		xlsx  = flag.String("xlsx", "dss_report.xlsx", "output workbook path")
		chart = flag.String("chart", "spoilage_by_crop.png", "output chart path")
	)
	flag.Parse()

	fmt.Println("🌱 COLD-CHAIN DSS REPORT EXPORT")

	ds, err := coldchain.LoadCSVFile(*input)
	if err != nil {
		log.Fatal("Error loading dataset: ", err)
	}
	fmt.Printf("📊 Dataset loaded: %d records (%d dropped, %d parse warnings)\n",
		len(ds.Records), ds.Validation.DroppedRows, ds.Validation.ParseWarnings)

	if err := coldchain.ExportExcel(ds, *xlsx); err != nil {
		log.Fatal("Error writing workbook: ", err)
	}
	fmt.Printf("📈 Workbook written: %s\n", *xlsx)

	if err := coldchain.ExportSpoilageChart(ds, *chart); err != nil {
		log.Fatal("Error writing chart: ", err)
	}
	fmt.Printf("🖼  Chart written: %s\n", *chart)

	fmt.Println("\n✅ EXPORT COMPLETE")
}
