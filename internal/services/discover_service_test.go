package services_test

import (
	"fmt"
	"testing"
	"time"

	"cafequest/internal/models"
	"cafequest/internal/repositories"
	"cafequest/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func seedDiscoverUsers(t *testing.T, userRepo *repositories.MockUserRepository) {
	t.Helper()
	users := []models.User{
		{ID: "owner-a", Username: "annie", Email: "annie@example.com", Password: "x", Avatar: "https://img.example.com/annie.png"},
		{ID: "owner-b", Username: "bob", Email: "bob@example.com", Password: "x"},
	}
	for i := range users {
		assert.NoError(t, userRepo.Create(&users[i]))
	}
}

func TestDiscoverService_ListPublic_Scope(t *testing.T) {
	cafeRepo := repositories.NewMockCafeRepository()
	userRepo := repositories.NewMockUserRepository()
	seedDiscoverUsers(t, userRepo)
	service := services.NewDiscoverService(cafeRepo, userRepo, nil)

	base := time.Now()
	seed := []models.Cafe{
		{UserID: "owner-a", Name: "Public A", Location: "North", IsPublic: true, Status: models.StatusVisited, Rating: 4, CreatedAt: base.Add(1 * time.Minute)},
		{UserID: "owner-a", Name: "Private A", Location: "North", IsPublic: false, Status: models.StatusVisited, Rating: 4, CreatedAt: base.Add(2 * time.Minute)},
		{UserID: "owner-b", Name: "Public B", Location: "South", IsPublic: true, Status: models.StatusWishlist, Rating: 2, CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range seed {
		assert.NoError(t, cafeRepo.Create(&seed[i]))
	}

	// owner-b's feed: never their own cafes, never private ones.
	page, err := service.ListPublic("owner-b", "", "", 1, 20)
	assert.NoError(t, err)
	if assert.Len(t, page.Cafes, 1) {
		assert.Equal(t, "Public A", page.Cafes[0].Name)
		// Read-time owner join.
		if assert.NotNil(t, page.Cafes[0].Owner) {
			assert.Equal(t, "annie", page.Cafes[0].Owner.Username)
			assert.Equal(t, "https://img.example.com/annie.png", page.Cafes[0].Owner.Avatar)
		}
	}
	assert.EqualValues(t, 1, page.Total)

	// A third party sees both public cafes, newest first.
	page, err = service.ListPublic("owner-c", "", "", 1, 20)
	assert.NoError(t, err)
	if assert.Len(t, page.Cafes, 2) {
		assert.Equal(t, "Public B", page.Cafes[0].Name)
		assert.Equal(t, "Public A", page.Cafes[1].Name)
	}
}

func TestDiscoverService_ListPublic_SearchMatchesNameOrLocation(t *testing.T) {
	cafeRepo := repositories.NewMockCafeRepository()
	userRepo := repositories.NewMockUserRepository()
	seedDiscoverUsers(t, userRepo)
	service := services.NewDiscoverService(cafeRepo, userRepo, nil)

	seed := []models.Cafe{
		{UserID: "owner-a", Name: "Harbor Beans", Location: "Dockside", IsPublic: true, Status: models.StatusVisited, Rating: 3, CreatedAt: time.Now()},
		{UserID: "owner-a", Name: "Hilltop", Location: "Harbor Street", IsPublic: true, Status: models.StatusVisited, Rating: 3, CreatedAt: time.Now()},
		{UserID: "owner-a", Name: "Unrelated", Location: "Elsewhere", IsPublic: true, Status: models.StatusVisited, Rating: 3, CreatedAt: time.Now()},
	}
	for i := range seed {
		assert.NoError(t, cafeRepo.Create(&seed[i]))
	}

	// The feed search is broader than the owner list: name OR location.
	page, err := service.ListPublic("owner-c", "", "harbor", 1, 20)
	assert.NoError(t, err)
	assert.Len(t, page.Cafes, 2)

	page, err = service.ListPublic("owner-c", "good-coffee", "", 1, 20)
	assert.NoError(t, err)
	assert.Len(t, page.Cafes, 0)
}

func TestDiscoverService_ListPublic_Pagination(t *testing.T) {
	cafeRepo := repositories.NewMockCafeRepository()
	userRepo := repositories.NewMockUserRepository()
	seedDiscoverUsers(t, userRepo)
	service := services.NewDiscoverService(cafeRepo, userRepo, nil)

	base := time.Now()
	for i := 0; i < 25; i++ {
		cafe := models.Cafe{
			UserID:    "owner-a",
			Name:      fmt.Sprintf("Cafe %02d", i),
			Location:  "Row",
			IsPublic:  true,
			Status:    models.StatusVisited,
			Rating:    3,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		assert.NoError(t, cafeRepo.Create(&cafe))
	}

	page1, err := service.ListPublic("owner-c", "", "", 1, 10)
	assert.NoError(t, err)
	assert.Len(t, page1.Cafes, 10)
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, 3, page1.Pages)
	assert.EqualValues(t, 25, page1.Total)
	// Newest first: the last created cafe leads page one.
	assert.Equal(t, "Cafe 24", page1.Cafes[0].Name)

	page3, err := service.ListPublic("owner-c", "", "", 3, 10)
	assert.NoError(t, err)
	assert.Len(t, page3.Cafes, 5)
	assert.Equal(t, "Cafe 00", page3.Cafes[len(page3.Cafes)-1].Name)

	// Beyond the last page: empty items, same totals.
	page9, err := service.ListPublic("owner-c", "", "", 9, 10)
	assert.NoError(t, err)
	assert.Len(t, page9.Cafes, 0)
	assert.EqualValues(t, 25, page9.Total)

	// The page size is caller-supplied and not capped.
	all, err := service.ListPublic("owner-c", "", "", 1, 500)
	assert.NoError(t, err)
	assert.Len(t, all.Cafes, 25)
	assert.Equal(t, 1, all.Pages)

	// Nonsense paging input falls back to defaults.
	pageDefault, err := service.ListPublic("owner-c", "", "", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, pageDefault.Page)
	assert.Len(t, pageDefault.Cafes, 20)
}

func TestDiscoverService_SaveToWishlist(t *testing.T) {
	cafeRepo := repositories.NewMockCafeRepository()
	userRepo := repositories.NewMockUserRepository()
	seedDiscoverUsers(t, userRepo)
	service := services.NewDiscoverService(cafeRepo, userRepo, nil)

	visited := time.Now().Add(-24 * time.Hour)
	source := models.Cafe{
		UserID:    "owner-a",
		Name:      "Roastery",
		Location:  "Old Town",
		Photo:     "https://img.example.com/roastery.jpg",
		Rating:    5,
		Tags:      models.TagList{models.TagGoodCoffee, models.TagAesthetic},
		Notes:     "private notes of owner-a",
		Status:    models.StatusVisited,
		IsPublic:  true,
		VisitedAt: &visited,
		CreatedAt: time.Now(),
	}
	assert.NoError(t, cafeRepo.Create(&source))

	clone, err := service.SaveToWishlist("owner-b", source.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, source.ID, clone.ID)
	assert.Equal(t, "owner-b", clone.UserID)
	// Copied verbatim.
	assert.Equal(t, source.Name, clone.Name)
	assert.Equal(t, source.Location, clone.Location)
	assert.Equal(t, source.Photo, clone.Photo)
	assert.Equal(t, source.Rating, clone.Rating)
	assert.Equal(t, source.Tags, clone.Tags)
	// Forced regardless of the source's values.
	assert.Equal(t, models.StatusWishlist, clone.Status)
	assert.False(t, clone.IsPublic)
	assert.Nil(t, clone.VisitedAt)
	// Attribution note references the source owner, not their notes.
	assert.Equal(t, "Discovered from owner-a's collection", clone.Notes)

	// Second save of the same cafe is a duplicate.
	_, err = service.SaveToWishlist("owner-b", source.ID)
	assert.ErrorIs(t, err, services.ErrDuplicate)

	// Unknown source cafe.
	_, err = service.SaveToWishlist("owner-b", "no-such-cafe")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDiscoverService_SaveToWishlist_PublishesEvent(t *testing.T) {
	cafeRepo := repositories.NewMockCafeRepository()
	userRepo := repositories.NewMockUserRepository()
	events := new(MockEventPublisher)
	service := services.NewDiscoverService(cafeRepo, userRepo, events)

	source := models.Cafe{UserID: "owner-a", Name: "Evented", Location: "Here", IsPublic: true, Status: models.StatusVisited, Rating: 3, CreatedAt: time.Now()}
	assert.NoError(t, cafeRepo.Create(&source))

	events.On("Publish", "cafe.saved", mock.Anything).Return(nil).Once()

	_, err := service.SaveToWishlist("owner-b", source.ID)
	assert.NoError(t, err)
	events.AssertExpectations(t)
}
