package seed

import (
	"errors"
	"fmt"

	"Yatube/api/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username:  "leo",
		FirstName: "Leo",
		LastName:  "Tolstoy",
		Email:     "leo@example.com",
		Password:  "password123",
	},
	{
		Username:  "anna",
		FirstName: "Anna",
		LastName:  "Akhmatova",
		Email:     "anna@example.com",
		Password:  "password123",
	},
}

var groups = []models.Group{
	{
		Title:       "Novels",
		Slug:        "novels",
		Description: "Long form prose and drafts.",
	},
	{
		Title:       "Poetry",
		Slug:        "poetry",
		Description: "Verses, old and new.",
	},
}

var posts = []struct {
	author int
	group  int
	text   string
}{
	{0, 0, "All happy families are alike; each unhappy family is unhappy in its own way."},
	{0, -1, "Everyone thinks of changing the world, but no one thinks of changing himself."},
	{1, 1, "I taught myself to live simply and wisely, to look at the sky and pray to God."},
}

// Load inserts demo accounts, groups, posts and a follow edge. Rows that
// already exist are left alone, so running it twice is harmless.
func Load(db *gorm.DB) error {
	seededUsers := make([]*models.User, len(users))
	for i := range users {
		u := users[i]
		existing, err := (&models.User{}).FindUserByUsername(db, u.Username)
		if err == nil {
			seededUsers[i] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		u.Prepare()
		if msgs := u.Validate(""); len(msgs) > 0 {
			return fmt.Errorf("seed user %s: %v", u.Username, msgs)
		}
		created, err := u.SaveUser(db)
		if err != nil {
			return fmt.Errorf("cannot seed users table: %w", err)
		}
		seededUsers[i] = created
	}

	seededGroups := make([]*models.Group, len(groups))
	for i := range groups {
		g := groups[i]
		existing, err := models.FindGroupBySlug(db, g.Slug)
		if err == nil {
			seededGroups[i] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		created, err := g.SaveGroup(db)
		if err != nil {
			return fmt.Errorf("cannot seed groups table: %w", err)
		}
		seededGroups[i] = created
	}

	var postCount int64
	if err := db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		return err
	}
	if postCount == 0 {
		for _, p := range posts {
			post := models.Post{Text: p.text, AuthorID: seededUsers[p.author].ID}
			if p.group >= 0 {
				post.GroupID = &seededGroups[p.group].ID
			}
			if _, err := post.SavePost(db); err != nil {
				return fmt.Errorf("cannot seed posts table: %w", err)
			}
		}
	}

	if _, err := models.CreateFollow(db, seededUsers[1].ID, seededUsers[0].ID); err != nil {
		return fmt.Errorf("cannot seed follows table: %w", err)
	}

	log.Info().Int("users", len(seededUsers)).Int("groups", len(seededGroups)).Msg("seed data loaded")
	return nil
}
