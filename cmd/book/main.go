package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"coastline/villas/internal/bookingform"
)

func main() {
	var (
		server    = flag.String("server", "http://localhost:8080", "Base URL of the booking API")
		villaID   = flag.String("villa", "", "Villa id")
		villaName = flag.String("villa-name", "", "Villa name")
		name      = flag.String("name", "", "Guest name")
		email     = flag.String("email", "", "Guest e-mail")
		phone     = flag.String("phone", "", "Guest phone")
		checkIn   = flag.String("check-in", "", "Check-in date (YYYY-MM-DD)")
		checkOut  = flag.String("check-out", "", "Check-out date (YYYY-MM-DD)")
		guests    = flag.String("guests", "", "Number of guests")
		food      = flag.String("food", "without", "Food preference: with or without")
		challenge = flag.String("captcha", "", "Solved Turnstile challenge token")
		timeout   = flag.Duration("timeout", 30*time.Second, "Request timeout")
	)
	flag.Parse()

	submitter := bookingform.NewHTTPSubmitter(*server, &http.Client{Timeout: *timeout})
	if *challenge != "" {
		submitter.SetChallenge(*challenge)
	}

	form := bookingform.NewForm(submitter)
	if *villaID != "" {
		form.SelectVilla(bookingform.Villa{ID: *villaID, Name: *villaName})
	}

	inputs := []struct {
		field bookingform.Field
		value string
	}{
		{bookingform.FieldName, *name},
		{bookingform.FieldEmail, *email},
		{bookingform.FieldPhone, *phone},
		{bookingform.FieldCheckIn, *checkIn},
		{bookingform.FieldCheckOut, *checkOut},
		{bookingform.FieldGuests, *guests},
		{bookingform.FieldFoodPreference, *food},
	}
	for _, in := range inputs {
		if err := form.Set(in.field, in.value); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	state, err := form.Submit(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch s := state.(type) {
	case bookingform.Submitted:
		fmt.Printf("Booking request received. Confirmation id: %s\n", s.BookingID)
	case bookingform.Failed:
		fmt.Fprintln(os.Stderr, s.Message)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "unexpected form state %T\n", s)
		os.Exit(1)
	}
}
