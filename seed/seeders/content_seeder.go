package seeders

import (
	"errors"
	"fmt"

	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/model"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ContentSeeder loads the starter catalog. Rows are keyed by fixed ids so a
// second run leaves existing content untouched.
type ContentSeeder struct {
	db *gorm.DB
}

func NewContentSeeder(db *gorm.DB) *ContentSeeder {
	return &ContentSeeder{db: db}
}

type exerciseFixture struct {
	typ         gamification.ExerciseType
	question    string
	options     []string
	answer      string
	explanation string
}

type lessonFixture struct {
	id        string
	title     string
	content   string
	xp        int
	exercises []exerciseFixture
}

type moduleFixture struct {
	id          string
	title       string
	description string
	lessons     []lessonFixture
}

type trackFixture struct {
	id          string
	slug        string
	title       string
	description string
	modules     []moduleFixture
}

func (s *ContentSeeder) SeedContent() error {
	log.Info("Seeding learning content")

	for i, track := range starterCatalog() {
		if err := s.seedTrack(i, track); err != nil {
			return err
		}
	}

	log.Info("Learning content seeded")
	return nil
}

func (s *ContentSeeder) seedTrack(order int, f trackFixture) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		track := model.Track{
			ID:          f.id,
			Slug:        f.slug,
			Title:       f.title,
			Description: f.description,
			OrderIndex:  order,
			IsActive:    true,
		}
		if err := createIfMissing(tx, &model.Track{}, track.ID, &track); err != nil {
			return err
		}

		for mi, mf := range f.modules {
			module := model.Module{
				ID:          mf.id,
				TrackID:     track.ID,
				Title:       mf.title,
				Description: mf.description,
				OrderIndex:  mi,
				IsActive:    true,
			}
			if err := createIfMissing(tx, &model.Module{}, module.ID, &module); err != nil {
				return err
			}

			for li, lf := range mf.lessons {
				lesson := model.Lesson{
					ID:         lf.id,
					ModuleID:   module.ID,
					Title:      lf.title,
					Content:    lf.content,
					XPReward:   lf.xp,
					OrderIndex: li,
					IsActive:   true,
				}
				created, err := createIfMissingReport(tx, &model.Lesson{}, lesson.ID, &lesson)
				if err != nil {
					return err
				}
				if !created {
					continue
				}

				for ei, ef := range lf.exercises {
					exercise := model.Exercise{
						ID:            fmt.Sprintf("%s_ex%d", lesson.ID, ei+1),
						LessonID:      lesson.ID,
						Type:          string(ef.typ),
						Question:      ef.question,
						CorrectAnswer: ef.answer,
						Explanation:   ef.explanation,
						OrderIndex:    ei,
					}
					exercise.SetOptions(ef.options)
					if err := tx.Create(&exercise).Error; err != nil {
						return err
					}
				}
				log.WithFields(log.Fields{"lesson": lesson.ID, "exercises": len(lf.exercises)}).Info("Seeded lesson")
			}
		}
		return nil
	})
}

func createIfMissing(tx *gorm.DB, existing interface{}, id string, value interface{}) error {
	_, err := createIfMissingReport(tx, existing, id, value)
	return err
}

func createIfMissingReport(tx *gorm.DB, existing interface{}, id string, value interface{}) (bool, error) {
	err := tx.Where("id = ?", id).First(existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, tx.Create(value).Error
}

func starterCatalog() []trackFixture {
	return []trackFixture{
		{
			id:          "track_entrepreneurship",
			slug:        "entrepreneurship",
			title:       "Entrepreneurship",
			description: "Learn how ideas become businesses.",
			modules: []moduleFixture{
				{
					id:          "module_ideas",
					title:       "Finding an Idea",
					description: "Spot problems worth solving.",
					lessons: []lessonFixture{
						{
							id:      "lesson_problems",
							title:   "Problems Before Products",
							content: "Good businesses start with a real problem that real people have.",
							xp:      10,
							exercises: []exerciseFixture{
								{
									typ:         gamification.ExerciseMultipleChoice,
									question:    "What should come first when starting a business?",
									options:     []string{"A logo", "A real customer problem", "An office", "A website"},
									answer:      "A real customer problem",
									explanation: "Products exist to solve problems. Start with the problem.",
								},
								{
									typ:         gamification.ExerciseFillBlank,
									question:    "A business solves a ___ for a ___.",
									answer:      "problem;customer",
									explanation: "Every business solves a problem for a customer.",
								},
								{
									typ:         gamification.ExerciseCaseStudy,
									question:    "Mai notices classmates struggle to find study partners. Describe one way she could test whether this is a real problem.",
									answer:      "interview",
									explanation: "Talking to potential customers is the cheapest way to validate a problem.",
								},
							},
						},
						{
							id:      "lesson_customers",
							title:   "Who Is Your Customer?",
							content: "A target customer is the specific group of people you serve first.",
							xp:      15,
							exercises: []exerciseFixture{
								{
									typ:         gamification.ExerciseMultipleChoice,
									question:    "Which is the most specific target customer?",
									options:     []string{"Everyone", "Students", "High school students preparing for exams", "People"},
									answer:      "High school students preparing for exams",
									explanation: "Narrow groups are easier to reach and understand.",
								},
								{
									typ:         gamification.ExerciseFillBlank,
									question:    "The first group of customers you serve is called your ___ market.",
									answer:      "target",
									explanation: "Your target market is where you focus first.",
								},
							},
						},
					},
				},
				{
					id:          "module_money",
					title:       "Money Basics",
					description: "Revenue, costs and profit.",
					lessons: []lessonFixture{
						{
							id:      "lesson_profit",
							title:   "Revenue Minus Costs",
							content: "Profit is what remains after paying every cost from your revenue.",
							xp:      20,
							exercises: []exerciseFixture{
								{
									typ:         gamification.ExerciseMultipleChoice,
									question:    "You sell 10 cups of lemonade at 2 each and spend 8 on supplies. What is your profit?",
									options:     []string{"20", "12", "8", "10"},
									answer:      "12",
									explanation: "Revenue 20 minus costs 8 leaves 12.",
								},
								{
									typ:         gamification.ExerciseFillBlank,
									question:    "Profit equals ___ minus ___.",
									answer:      "revenue;costs",
									explanation: "Profit = revenue - costs.",
								},
							},
						},
					},
				},
			},
		},
	}
}
