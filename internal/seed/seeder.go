package seed

import (
	"log"
	"time"

	"gazette/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a realistic mix of content, including
// the hidden states readers never see: drafts, future-dated posts and posts
// filed under unpublished categories.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder for the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Deletion order follows the foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Comment{},
		&models.Post{},
		&models.Category{},
		&models.Location{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// Run seeds users, taxonomy and content.
func (s *Seeder) Run(numUsers, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	categories := make([]*models.Category, 0, 6)
	for i := 0; i < 5; i++ {
		category, err := s.factory.CreateCategory()
		if err != nil {
			return err
		}
		categories = append(categories, category)
	}
	// One unpublished category so hidden-category behavior is exercisable.
	hiddenCategory, err := s.factory.CreateCategory(func(c *models.Category) {
		c.IsPublished = false
	})
	if err != nil {
		return err
	}
	categories = append(categories, hiddenCategory)

	locations := make([]*models.Location, 0, 4)
	for i := 0; i < 4; i++ {
		location, err := s.factory.CreateLocation()
		if err != nil {
			return err
		}
		locations = append(locations, location)
	}
	log.Printf("Seeded %d categories, %d locations", len(categories), len(locations))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rnd.Intn(len(users))]
		category := categories[s.factory.rnd.Intn(len(categories))]

		post, err := s.factory.CreatePost(author, category, func(p *models.Post) {
			if s.factory.rnd.Intn(4) == 0 {
				location := locations[s.factory.rnd.Intn(len(locations))]
				p.LocationID = &location.ID
			}
			switch s.factory.rnd.Intn(10) {
			case 0: // draft
				p.IsPublished = false
			case 1: // scheduled for the future
				p.PubDate = time.Now().UTC().Add(time.Duration(1+s.factory.rnd.Intn(30*24)) * time.Hour)
			}
		})
		if err != nil {
			return err
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))

	commentCount := 0
	for _, post := range posts {
		for i := 0; i < s.factory.rnd.Intn(5); i++ {
			author := users[s.factory.rnd.Intn(len(users))]
			if _, err := s.factory.CreateComment(author, post); err != nil {
				return err
			}
			commentCount++
		}
	}
	log.Printf("Seeded %d comments", commentCount)

	return nil
}
