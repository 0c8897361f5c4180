package seeder

import (
	"context"
	"fmt"

	"hrcore/internal/database"
	"hrcore/internal/domain/catalog"
	"hrcore/internal/repository"
)

type CatalogSeeder struct{}

func (CatalogSeeder) Name() string { return "catalog" }

func (CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	checks := []struct {
		table   string
		columns []string
	}{
		{"roles", []string{"id", "canonical_name", "known_name", "synonyms"}},
		{"sub_roles", []string{"id", "canonical_name", "known_name", "synonyms", "tenant_id"}},
		{"skills", []string{"id", "canonical_name", "known_name", "synonyms", "category", "tenant_id"}},
		{"sub_role_skills", []string{"sub_role_id", "skill_id", "grading", "value"}},
	}
	for _, c := range checks {
		if err := EnsureTableColumns(ctx, db, c.table, c.columns...); err != nil {
			return err
		}
	}

	return seedCatalog(ctx, catalogRepos{
		roles:    repository.NewPostgresRoleRepository(db),
		subRoles: repository.NewPostgresSubRoleRepository(db),
		skills:   repository.NewPostgresSkillRepository(db),
	}, defaultCatalog)
}

type catalogRepos struct {
	roles interface {
		Upsert(ctx context.Context, role catalog.Role) (catalog.Role, error)
	}
	subRoles interface {
		UpsertGlobal(ctx context.Context, sr catalog.SubRole) (catalog.SubRole, error)
	}
	skills interface {
		UpsertGlobal(ctx context.Context, s catalog.Skill) (catalog.Skill, error)
		UpsertGrading(ctx context.Context, edge catalog.GradingEdge) error
	}
}

type seedRole struct {
	Name     string
	Synonyms []string
	SubRoles []seedSubRole
}

type seedSubRole struct {
	Name     string
	Synonyms []string
	// Skills maps a skill name to its grading; nil records an edge with an
	// unknown grading.
	Skills map[string]*float64
}

type seedSkill struct {
	Name     string
	Category string
	Synonyms []string
}

type catalogData struct {
	Roles  []seedRole
	Skills []seedSkill
}

func grade(v float64) *float64 { return &v }

var defaultCatalog = catalogData{
	Skills: []seedSkill{
		{Name: "JavaScript", Category: "Programming Language", Synonyms: []string{"JS", "ECMAScript"}},
		{Name: "TypeScript", Category: "Programming Language", Synonyms: []string{"TS"}},
		{Name: "React", Category: "Framework", Synonyms: []string{"ReactJS", "React.js"}},
		{Name: "CSS", Category: "Markup", Synonyms: []string{"Cascading Style Sheets"}},
		{Name: "Go", Category: "Programming Language", Synonyms: []string{"Golang"}},
		{Name: "PostgreSQL", Category: "Database", Synonyms: []string{"Postgres", "PG"}},
		{Name: "Redis", Category: "Database"},
		{Name: "Docker", Category: "DevOps"},
		{Name: "Kubernetes", Category: "DevOps", Synonyms: []string{"K8s"}},
		{Name: "Swift", Category: "Programming Language"},
		{Name: "Kotlin", Category: "Programming Language"},
		{Name: "SQL", Category: "Database", Synonyms: []string{"Structured Query Language"}},
		{Name: "Python", Category: "Programming Language", Synonyms: []string{"Py"}},
		{Name: "Apache Spark", Category: "Data", Synonyms: []string{"Spark", "PySpark"}},
		{Name: "Figma", Category: "Design Tool"},
		{Name: "User Research", Category: "Design", Synonyms: []string{"UX Research"}},
		{Name: "Roadmapping", Category: "Product", Synonyms: []string{"Product Roadmap"}},
		{Name: "Stakeholder Management", Category: "Product"},
	},
	Roles: []seedRole{
		{
			Name:     "Software Engineer",
			Synonyms: []string{"Software Developer", "SWE", "Programmer"},
			SubRoles: []seedSubRole{
				{
					Name:     "Frontend Developer",
					Synonyms: []string{"FE Dev", "Front-end Engineer", "UI Developer"},
					Skills: map[string]*float64{
						"JavaScript": grade(0.95), "TypeScript": grade(0.85), "React": grade(0.9),
						"CSS": grade(0.8), "Figma": grade(0.3), "Docker": nil,
					},
				},
				{
					Name:     "Backend Developer",
					Synonyms: []string{"BE Dev", "Back-end Engineer", "Server-side Developer"},
					Skills: map[string]*float64{
						"Go": grade(0.9), "PostgreSQL": grade(0.85), "Redis": grade(0.6),
						"Docker": grade(0.7), "Kubernetes": grade(0.5), "SQL": grade(0.8),
					},
				},
				{
					Name:     "DevOps Engineer",
					Synonyms: []string{"SRE", "Site Reliability Engineer", "Platform Engineer"},
					Skills: map[string]*float64{
						"Docker": grade(0.95), "Kubernetes": grade(0.95), "Go": grade(0.5), "Redis": grade(0.4),
					},
				},
			},
		},
		{
			Name:     "Mobile Engineer",
			Synonyms: []string{"Mobile Developer", "App Developer"},
			SubRoles: []seedSubRole{
				{
					Name:     "iOS Developer",
					Synonyms: []string{"iOS Engineer", "Apple Developer"},
					Skills:   map[string]*float64{"Swift": grade(0.95), "Figma": grade(0.2)},
				},
				{
					Name:     "Android Developer",
					Synonyms: []string{"Android Engineer"},
					Skills:   map[string]*float64{"Kotlin": grade(0.95), "Figma": grade(0.2)},
				},
			},
		},
		{
			Name:     "Data Engineer",
			Synonyms: []string{"Data Platform Engineer", "ETL Developer"},
			SubRoles: []seedSubRole{
				{
					Name:     "Analytics Engineer",
					Synonyms: []string{"BI Engineer"},
					Skills:   map[string]*float64{"SQL": grade(0.95), "Python": grade(0.7), "PostgreSQL": grade(0.6)},
				},
				{
					Name:     "Big Data Engineer",
					Synonyms: []string{"Spark Developer"},
					Skills:   map[string]*float64{"Apache Spark": grade(0.9), "Python": grade(0.85), "SQL": grade(0.7), "Kubernetes": nil},
				},
			},
		},
		{
			Name:     "Product Manager",
			Synonyms: []string{"PM", "Product Owner"},
			SubRoles: []seedSubRole{
				{
					Name:     "Technical Product Manager",
					Synonyms: []string{"TPM"},
					Skills:   map[string]*float64{"Roadmapping": grade(0.9), "Stakeholder Management": grade(0.85), "SQL": grade(0.4)},
				},
			},
		},
		{
			Name:     "Designer",
			Synonyms: []string{"UX Designer", "UI Designer"},
			SubRoles: []seedSubRole{
				{
					Name:     "Product Designer",
					Synonyms: []string{"UX/UI Designer"},
					Skills:   map[string]*float64{"Figma": grade(0.95), "User Research": grade(0.8), "CSS": grade(0.3)},
				},
			},
		},
	},
}

func seedCatalog(ctx context.Context, repos catalogRepos, data catalogData) error {
	skillIDs := make(map[string]int64, len(data.Skills))
	for _, s := range data.Skills {
		saved, err := repos.skills.UpsertGlobal(ctx, catalog.Skill{
			CanonicalName: s.Name,
			KnownName:     s.Name,
			Synonyms:      s.Synonyms,
			Category:      s.Category,
		})
		if err != nil {
			return fmt.Errorf("skill %s: %w", s.Name, err)
		}
		skillIDs[s.Name] = saved.ID
	}

	for _, r := range data.Roles {
		role, err := repos.roles.Upsert(ctx, catalog.Role{CanonicalName: r.Name, KnownName: r.Name, Synonyms: r.Synonyms})
		if err != nil {
			return fmt.Errorf("role %s: %w", r.Name, err)
		}
		for _, sr := range r.SubRoles {
			saved, err := repos.subRoles.UpsertGlobal(ctx, catalog.SubRole{
				CanonicalName: sr.Name,
				KnownName:     sr.Name,
				Synonyms:      sr.Synonyms,
				ParentRoleID:  role.ID,
			})
			if err != nil {
				return fmt.Errorf("sub-role %s: %w", sr.Name, err)
			}
			for skill, g := range sr.Skills {
				skillID, ok := skillIDs[skill]
				if !ok {
					return fmt.Errorf("sub-role %s references unknown skill %s", sr.Name, skill)
				}
				edge := catalog.GradingEdge{SubRoleID: saved.ID, SkillID: skillID, Grading: g}
				if g != nil {
					edge.Value = *g
				}
				if err := repos.skills.UpsertGrading(ctx, edge); err != nil {
					return fmt.Errorf("grading %s/%s: %w", sr.Name, skill, err)
				}
			}
		}
	}
	return nil
}
