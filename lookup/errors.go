// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lookup

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnnamedContract is returned by [Load] and [LoadFrom] when the
// contract has no canonical name and none was configured.
var ErrUnnamedContract = errors.New("lookup: contract has no name")

// Reasons carried by a [ConfigurationError]. Test for them with [errors.Is].
var (
	ErrIllegalSyntax    = errors.New("illegal configuration-file syntax")
	ErrIllegalName      = errors.New("illegal provider name")
	ErrRead             = errors.New("error reading configuration file")
	ErrLocate           = errors.New("error locating configuration files")
	ErrProviderNotFound = errors.New("provider not found")
	ErrNotSubtype       = errors.New("provider not a subtype")
	ErrInstantiate      = errors.New("provider could not be instantiated")
)

// ConfigurationError is the fatal discovery error. Malformed configuration
// files, unknown provider names, providers not implementing the contract
// and failing constructors are all reported with it.
type ConfigurationError struct {
	// Contract is the canonical name of the contract being discovered.
	Contract string

	// Location and Line point into the offending configuration file, if any.
	Location string
	Line     int

	// Provider is the offending provider name, if any.
	Provider string

	Reason error
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Contract)
	sb.WriteString(": ")
	if e.Location != "" {
		sb.WriteString(e.Location)
		if e.Line > 0 {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(e.Line))
		}
		sb.WriteString(": ")
	}
	if e.Reason != nil {
		sb.WriteString(e.Reason.Error())
	}
	if e.Provider != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Provider)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigurationError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Reason != nil {
		errs = append(errs, e.Reason)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
