package wizard

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-wizard/internal/types"
)

// FieldErrors maps field names to human-readable validation messages.
type FieldErrors map[string]string

// Result is the outcome of validating one step submission.
//
// Normalized is populated only when Valid is true. Stale marks a result whose
// input was superseded by a newer submission for the same step before this one
// was applied; stale results are never merged, valid or not.
type Result struct {
	Valid      bool
	Stale      bool
	Errors     FieldErrors
	Normalized any
}

// Validator is the per-step validation gate. Only structural and format
// constraints are enforced; most wizard fields are optional and required-ness
// exists only where a step's schema says so.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the step validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the raw input for a step and returns the normalized payload
// when it is well-formed. The raw value must be the step's payload type; a
// mismatched type is reported as a validation failure, not a panic.
func (v *Validator) Validate(step StepKey, raw any) Result {
	switch step {
	case StepGeneralInfo:
		in, ok := raw.(types.GeneralInfo)
		if !ok {
			return typeMismatch(step, raw)
		}
		in.Title = strings.TrimSpace(in.Title)
		in.Description = strings.TrimSpace(in.Description)
		return Result{Valid: true, Normalized: in}

	case StepPersonalInfo:
		in, ok := raw.(types.PersonalInfo)
		if !ok {
			return typeMismatch(step, raw)
		}
		in.Name = strings.TrimSpace(in.Name)
		in.JobTitle = strings.TrimSpace(in.JobTitle)
		in.Address = strings.TrimSpace(in.Address)
		in.Phone = strings.TrimSpace(in.Phone)
		in.Email = strings.TrimSpace(in.Email)
		if errs := v.structErrors(in); len(errs) > 0 {
			return Result{Errors: errs}
		}
		return Result{Valid: true, Normalized: in}

	case StepJobDescription:
		in, ok := raw.(types.JobDetails)
		if !ok {
			return typeMismatch(step, raw)
		}
		in.ApplyingJobTitle = strings.TrimSpace(in.ApplyingJobTitle)
		in.CompanyName = strings.TrimSpace(in.CompanyName)
		in.CompanyWebsite = strings.TrimSpace(in.CompanyWebsite)
		in.Description = strings.TrimSpace(in.Description)
		return Result{Valid: true, Normalized: in}

	case StepQuestionnaire:
		in, ok := raw.([]types.Question)
		if !ok {
			return typeMismatch(step, raw)
		}
		out := make([]types.Question, len(in))
		for i, q := range in {
			q.Answer = strings.TrimSpace(q.Answer)
			q.DeriveStatus()
			out[i] = q
		}
		return Result{Valid: true, Normalized: out}

	case StepOptimize:
		// The optimize step has no local fields; persistence is a remote call.
		return Result{Valid: true, Normalized: nil}

	case StepWorkExperience:
		in, ok := raw.([]types.WorkExperience)
		if !ok {
			return typeMismatch(step, raw)
		}
		return Result{Valid: true, Normalized: append([]types.WorkExperience(nil), in...)}

	case StepEducation:
		in, ok := raw.([]types.Education)
		if !ok {
			return typeMismatch(step, raw)
		}
		return Result{Valid: true, Normalized: append([]types.Education(nil), in...)}

	case StepProjects:
		in, ok := raw.([]types.Project)
		if !ok {
			return typeMismatch(step, raw)
		}
		return Result{Valid: true, Normalized: append([]types.Project(nil), in...)}

	case StepResearch:
		in, ok := raw.([]types.ResearchPaper)
		if !ok {
			return typeMismatch(step, raw)
		}
		return Result{Valid: true, Normalized: append([]types.ResearchPaper(nil), in...)}

	case StepSkills:
		in, ok := raw.([]string)
		if !ok {
			return typeMismatch(step, raw)
		}
		out := make([]string, 0, len(in))
		for _, s := range in {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return Result{Valid: true, Normalized: out}

	case StepSummary:
		in, ok := raw.(string)
		if !ok {
			return typeMismatch(step, raw)
		}
		return Result{Valid: true, Normalized: strings.TrimSpace(in)}

	default:
		return Result{Errors: FieldErrors{"step": fmt.Sprintf("unknown step: %s", step)}}
	}
}

// structErrors runs tag validation and flattens the failures per field.
func (v *Validator) structErrors(in any) FieldErrors {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	errs := FieldErrors{}
	if ves, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range ves {
			errs[strings.ToLower(ve.Field())] = tagMessage(ve)
		}
		return errs
	}
	errs["input"] = err.Error()
	return errs
}

func tagMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "email":
		return "must be a valid email address"
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", ve.Param())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func typeMismatch(step StepKey, raw any) Result {
	return Result{Errors: FieldErrors{"input": fmt.Sprintf("unexpected payload type %T for step %s", raw, step)}}
}
