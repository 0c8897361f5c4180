package seeder

// Defaults seeds the shared catalog. Requirements reference both roles and
// soft skills, so they run last.
func Defaults() []Seeder {
	return []Seeder{
		SoftSkillsSeeder{},
		CatalogSeeder{},
		RequirementsSeeder{},
	}
}
