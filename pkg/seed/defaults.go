package seed

import "keyword-scout/pkg/models"

var defaultSeeds = []models.Seed{
	{Term: "health insurance", Weight: 3, Category: "health insurance"},
	{Term: "health insurance for self employed", Weight: 2, Category: "health insurance"},
	{Term: "marketplace health plans", Weight: 2, Category: "health insurance"},
	{Term: "dental insurance", Weight: 1, Category: "health insurance"},
	{Term: "vision insurance", Weight: 1, Category: "health insurance"},

	{Term: "medicare enrollment", Weight: 3, Category: "medicare"},
	{Term: "medicare advantage plans", Weight: 3, Category: "medicare"},
	{Term: "medicare part d", Weight: 2, Category: "medicare"},
	{Term: "medigap plans", Weight: 2, Category: "medicare"},
	{Term: "medicare eligibility", Weight: 1, Category: "medicare"},

	{Term: "budgeting tips", Weight: 2, Category: "personal finance"},
	{Term: "emergency fund", Weight: 2, Category: "personal finance"},
	{Term: "high yield savings account", Weight: 3, Category: "personal finance"},
	{Term: "credit score", Weight: 3, Category: "personal finance"},
	{Term: "debt consolidation", Weight: 2, Category: "personal finance"},

	{Term: "roth ira", Weight: 3, Category: "retirement"},
	{Term: "401k rollover", Weight: 2, Category: "retirement"},
	{Term: "retirement planning", Weight: 2, Category: "retirement"},
	{Term: "social security benefits", Weight: 3, Category: "retirement"},
	{Term: "required minimum distribution", Weight: 1, Category: "retirement"},

	{Term: "tax deductions", Weight: 3, Category: "taxes"},
	{Term: "capital gains tax", Weight: 2, Category: "taxes"},
	{Term: "estimated tax payments", Weight: 1, Category: "taxes"},
	{Term: "tax refund", Weight: 2, Category: "taxes"},

	{Term: "homeowners insurance", Weight: 3, Category: "home"},
	{Term: "mortgage refinance", Weight: 2, Category: "home"},
	{Term: "first time home buyer", Weight: 3, Category: "home"},
	{Term: "home equity loan", Weight: 2, Category: "home"},

	{Term: "car insurance", Weight: 3, Category: "auto"},
	{Term: "auto loan", Weight: 2, Category: "auto"},
	{Term: "gap insurance", Weight: 1, Category: "auto"},

	{Term: "small business insurance", Weight: 2, Category: "small business"},
	{Term: "small business loans", Weight: 2, Category: "small business"},
	{Term: "llc taxes", Weight: 1, Category: "small business"},
}

// Defaults returns a copy of the built-in seed list.
func Defaults() []models.Seed {
	return append([]models.Seed(nil), defaultSeeds...)
}
