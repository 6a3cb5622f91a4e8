// Package service runs the pharmacy operations: input validation, reference
// checks and the purchase/sale/return reconciliation sequence.
package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/ttacon/libphonenumber"

	"medsales/m/domain"
	"medsales/m/internal/config"
	"medsales/m/internal/reconcile"
	"medsales/m/internal/store"
)

type Options struct {
	// Mode is config.ModeLegacy or config.ModeStrict.
	Mode        string
	PhoneRegion string
	Now         func() time.Time
}

type Service struct {
	store       *store.Store
	logger      logrus.FieldLogger
	mode        string
	phoneRegion string
	now         func() time.Time
	validate    *validator.Validate
}

func New(st *store.Store, logger logrus.FieldLogger, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = config.ModeLegacy
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Service{
		store:       st,
		logger:      logger,
		mode:        opts.Mode,
		phoneRegion: opts.PhoneRegion,
		now:         opts.Now,
		validate:    v,
	}
}

func (s *Service) Mode() string { return s.mode }

func (s *Service) today() domain.Date {
	return domain.DateOf(s.now())
}

type step func(q *store.Queries) error

// run executes the steps of one operation. Legacy mode commits every step on
// its own and stops at the first failure, leaving earlier steps applied.
// Strict mode runs them all in one transaction.
func (s *Service) run(ctx context.Context, steps ...step) error {
	if s.mode == config.ModeStrict {
		return s.store.InTx(ctx, func(q *store.Queries) error {
			for _, st := range steps {
				if err := st(q); err != nil {
					return err
				}
			}
			return nil
		})
	}
	for _, st := range steps {
		if err := s.store.InTx(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// check validates in against its struct tags.
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	default:
		return "failed on " + fe.Tag()
	}
}

// logFailure records unexpected errors. Input and rule errors are the caller's
// problem and are not logged here.
func (s *Service) logFailure(funcName, context string, data any, err error) error {
	var (
		verr *ValidationError
		rerr *ReferenceError
		rule *reconcile.RuleError
	)
	if errors.As(err, &verr) || errors.As(err, &rerr) || errors.As(err, &rule) || errors.Is(err, ErrInvalidCredentials) {
		return err
	}
	config.LogError(s.logger, "service", funcName, context, data, err)
	return err
}

// normalizeContact rewrites contact info that parses as a valid phone number
// into E.164 and leaves anything else, such as an email address, as typed.
func (s *Service) normalizeContact(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "@") || s.phoneRegion == "" {
		return raw
	}
	p, err := libphonenumber.Parse(raw, s.phoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return raw
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}

func orToday(d domain.Date, today domain.Date) domain.Date {
	if d.IsZero() {
		return today
	}
	return d
}
