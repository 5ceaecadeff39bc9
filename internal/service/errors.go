package service

import "errors"

var (
	ErrInvalidAppointment = errors.New("invalid appointment")
	ErrInvalidStaff       = errors.New("invalid staff entry")
	ErrBookingIDExhausted = errors.New("could not allocate a unique booking id")
)
