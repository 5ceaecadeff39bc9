package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"salonbook/internal/bookingid"
	"salonbook/internal/database"
	"salonbook/internal/models"
	"salonbook/internal/provider"

	"github.com/rs/zerolog"
)

type importStats struct {
	Created    int
	Duplicates int
	Invalid    int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		appointmentsPath = flag.String("appointments", "", "path to provider appointments JSON dump")
		staffPath        = flag.String("staff", "", "path to provider staff JSON dump")
		dbPath           = flag.String("db", "./data/salonbook.db", "path to sqlite db")
		prefix           = flag.String("prefix", models.DefaultBookingIDPrefix, "prefix for generated booking ids")
	)
	flag.Parse()

	if *appointmentsPath == "" && *staffPath == "" {
		return fmt.Errorf("nothing to import: pass -appointments and/or -staff")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *staffPath != "" {
		data, err := os.ReadFile(*staffPath)
		if err != nil {
			return fmt.Errorf("read staff: %w", err)
		}
		entries, err := provider.DecodeStaff(data)
		if err != nil {
			return fmt.Errorf("parse staff: %w", err)
		}
		n, err := importStaff(ctx, db, entries)
		if err != nil {
			return err
		}
		fmt.Printf("staff: upserted=%d\n", n)
	}

	if *appointmentsPath != "" {
		data, err := os.ReadFile(*appointmentsPath)
		if err != nil {
			return fmt.Errorf("read appointments: %w", err)
		}
		appts, err := provider.DecodeAppointments(data)
		if err != nil {
			return fmt.Errorf("parse appointments: %w", err)
		}
		gen := bookingid.New(nil, bookingid.WithPrefix(*prefix), bookingid.WithLogger(&logger))
		stats, err := importAppointments(ctx, db, gen, appts, &logger)
		if err != nil {
			return err
		}
		fmt.Printf("appointments: created=%d duplicates=%d invalid=%d\n", stats.Created, stats.Duplicates, stats.Invalid)
	}
	return nil
}

func importStaff(ctx context.Context, db *database.DB, entries []models.StaffDirectoryEntry) (int, error) {
	n := 0
	for i := range entries {
		if entries[i].StaffName == "" && entries[i].Email == "" {
			continue
		}
		if err := db.UpsertStaff(ctx, &entries[i]); err != nil {
			return n, fmt.Errorf("upsert staff %s: %w", entries[i].ID, err)
		}
		n++
	}
	return n, nil
}

// importAppointments keeps provider booking ids and generates one only when
// the record has none, skipping past ids already taken. Records already present are counted, not overwritten.
func importAppointments(ctx context.Context, db *database.DB, gen *bookingid.Generator, appts []models.Appointment, logger *zerolog.Logger) (importStats, error) {
	var stats importStats
	for i := range appts {
		appt := &appts[i]
		if appt.CustomerName == "" {
			stats.Invalid++
			continue
		}
		if !models.ValidStatus(appt.Status) {
			logger.Warn().Str("booking_id", appt.BookingID).Str("status", appt.Status).Msg("unknown status, importing as pending")
			appt.Status = models.StatusPending
		}
		err := createAppointment(ctx, db, gen, appt)
		switch {
		case err == nil:
			stats.Created++
		case errors.Is(err, database.ErrDuplicateBookingID):
			stats.Duplicates++
		default:
			return stats, fmt.Errorf("create %s: %w", appt.BookingID, err)
		}
	}
	return stats, nil
}

func createAppointment(ctx context.Context, db *database.DB, gen *bookingid.Generator, appt *models.Appointment) error {
	if appt.BookingID != "" {
		return db.CreateAppointment(ctx, appt)
	}

	var err error
	for attempt := 0; attempt < models.DefaultMaxCreateAttempts; attempt++ {
		appt.BookingID = gen.Generate(ctx)
		err = db.CreateAppointment(ctx, appt)
		if !errors.Is(err, database.ErrDuplicateBookingID) {
			return err
		}
	}
	return err
}
