package domain

// BenefitPlan describes a benefit offering employees can enroll in.
type BenefitPlan struct {
	ID                   int
	Name                 string
	Type                 string
	PremiumCost          float64
	EmployerContribution float64
}

// Validate checks the record against the data model.
func (p BenefitPlan) Validate() error {
	if p.ID <= 0 {
		return ErrValidation("plan: id must be positive, got %d", p.ID)
	}
	if p.Name == "" {
		return ErrValidation("plan %d: name is required", p.ID)
	}
	if p.PremiumCost < 0 {
		return ErrValidation("plan %d: premium_cost must not be negative", p.ID)
	}
	if p.EmployerContribution < 0 {
		return ErrValidation("plan %d: employer_contribution must not be negative", p.ID)
	}
	return nil
}
