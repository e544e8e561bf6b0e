package main

import (
	"flag"
	"log"

	coldchain "coldchain-backend"
)

func main() {
	var (
		input    = flag.String("input", "TEAM_DSS_Dataset.csv", "path to the dataset CSV")
		truncate = flag.Bool("truncate", false, "clear farm_records before importing")
	)
	flag.Parse()

	ds, err := coldchain.LoadCSVFile(*input)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("📊 Loaded %d records from %s (%d dropped, %d parse warnings)",
		len(ds.Records), *input, ds.Validation.DroppedRows, ds.Validation.ParseWarnings)

	db, err := coldchain.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	n, err := coldchain.ImportRecords(db, ds, *truncate)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("✅ Imported %d of %d records into farm_records", n, len(ds.Records))
}
