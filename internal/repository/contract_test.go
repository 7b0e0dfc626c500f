package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/meeyqueue/case-backend/internal/models"
)

// stores is one set of repositories under test.
type stores struct {
	cases    CaseRepository
	users    UserRepository
	managers KioskManagerRepository
	events   CaseEventRepository
}

// ContractSuite runs the same behaviour checks against every implementation.
type ContractSuite struct {
	suite.Suite
	newStores func() stores
	s         stores
	ctx       context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.s = s.newStores()
}

func (s *ContractSuite) newUser(cc, number, email string) *models.User {
	u := &models.User{
		ID:            uuid.New(),
		Name:          "Tan Ah Kow",
		Email:         email,
		Race:          "chinese",
		Gender:        "male",
		MaritalStatus: "single",
		Occupation:    "Clerk",
		Phone:         &models.Phone{ID: uuid.New(), CountryCode: cc, Number: number},
	}
	s.Require().NoError(s.s.users.Create(s.ctx, u))
	return u
}

func (s *ContractSuite) newCase(userID uuid.UUID, location string, queueNo int, createdAt time.Time) *models.Case {
	c := &models.Case{
		ID:        uuid.New(),
		UserID:    userID,
		Subject:   "Water leak",
		Status:    models.CaseStatusOpen,
		Category:  models.CaseCategoryNormal,
		Location:  location,
		QueueNo:   queueNo,
		CreatedAt: createdAt,
	}
	s.Require().NoError(s.s.cases.Create(s.ctx, c))
	return c
}

func (s *ContractSuite) TestCaseLookup() {
	u := s.newUser("65", "91234567", "a@example.com")
	created := s.newCase(u.ID, "L1", 1, time.Now().UTC())

	s.Run("find by id", func() {
		got, err := s.s.cases.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created.Subject, got.Subject)
		s.Equal(u.ID, got.UserID)
	})

	s.Run("find by id missing", func() {
		_, err := s.s.cases.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("open case for user", func() {
		got, err := s.s.cases.FindOpenByUser(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal(created.ID, got.ID)
	})

	s.Run("no open case is not an error", func() {
		got, err := s.s.cases.FindOpenByUser(s.ctx, uuid.New())
		s.Require().NoError(err)
		s.Nil(got)
	})
}

func (s *ContractSuite) TestLatestByLocationAndDay() {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	u1 := s.newUser("65", "91111111", "u1@example.com")
	u2 := s.newUser("65", "92222222", "u2@example.com")
	u3 := s.newUser("65", "93333333", "u3@example.com")

	s.newCase(u1.ID, "L1", 1, day.Add(9*time.Hour))
	latest := s.newCase(u2.ID, "L1", 2, day.Add(10*time.Hour))
	s.newCase(u3.ID, "L2", 7, day.Add(11*time.Hour))

	got, err := s.s.cases.FindLatestByLocationAndDay(s.ctx, "L1", day, day.Add(24*time.Hour))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(latest.ID, got.ID)
	s.Equal(2, got.QueueNo)

	got, err = s.s.cases.FindLatestByLocationAndDay(s.ctx, "L1", day.Add(24*time.Hour), day.Add(48*time.Hour))
	s.Require().NoError(err)
	s.Nil(got)

	got, err = s.s.cases.FindLatestByLocationAndDay(s.ctx, "L1", day.Add(-24*time.Hour), day)
	s.Require().NoError(err)
	s.Nil(got, "the day end is exclusive")
}

func (s *ContractSuite) TestUpdateAndDelete() {
	u := s.newUser("65", "91234567", "a@example.com")
	c := s.newCase(u.ID, "L1", 1, time.Now().UTC())

	status := models.CaseStatusProcessing
	assignee := uuid.New()
	updated, err := s.s.cases.UpdateByID(s.ctx, c.ID, models.CasePatch{Status: &status, Assignee: &assignee})
	s.Require().NoError(err)
	s.Equal(models.CaseStatusProcessing, updated.Status)
	s.Require().NotNil(updated.Assignee)
	s.Equal(assignee, *updated.Assignee)
	s.Equal(models.CaseCategoryNormal, updated.Category)

	_, err = s.s.cases.UpdateByID(s.ctx, uuid.New(), models.CasePatch{Status: &status})
	s.Require().ErrorIs(err, ErrNotFound)

	deleted, err := s.s.cases.DeleteByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, deleted.ID)

	_, err = s.s.cases.DeleteByID(s.ctx, c.ID)
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *ContractSuite) TestList() {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i, loc := range []string{"L1", "L2", "L1"} {
		u := s.newUser("65", []string{"91111111", "92222222", "93333333"}[i], uuid.NewString()+"@example.com")
		ids = append(ids, s.newCase(u.ID, loc, i+1, base.Add(time.Duration(i)*time.Minute)).ID)
	}

	s.Run("newest first by default", func() {
		cases, err := s.s.cases.List(s.ctx, CaseFilter{})
		s.Require().NoError(err)
		s.Require().Len(cases, 3)
		s.Equal(ids[2], cases[0].ID)
		s.Equal(ids[0], cases[2].ID)
	})

	s.Run("ascending with location filter", func() {
		loc := "L1"
		cases, err := s.s.cases.List(s.ctx, CaseFilter{Location: &loc, SortAsc: true})
		s.Require().NoError(err)
		s.Require().Len(cases, 2)
		s.Equal(ids[0], cases[0].ID)
		s.Equal(ids[2], cases[1].ID)
	})

	s.Run("status filter", func() {
		status := models.CaseStatusClosed
		cases, err := s.s.cases.List(s.ctx, CaseFilter{Status: &status})
		s.Require().NoError(err)
		s.Empty(cases)
	})

	s.Run("limit", func() {
		cases, err := s.s.cases.List(s.ctx, CaseFilter{Limit: 2})
		s.Require().NoError(err)
		s.Len(cases, 2)
	})
}

func (s *ContractSuite) TestUsers() {
	u := s.newUser("65", "91234567", "a@example.com")

	s.Run("find by phone", func() {
		got, err := s.s.users.FindByPhone(s.ctx, "65", "91234567")
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal(u.ID, got.ID)
		s.Require().NotNil(got.Phone)
		s.Equal("91234567", got.Phone.Number)
	})

	s.Run("unknown phone", func() {
		got, err := s.s.users.FindByPhone(s.ctx, "65", "99999999")
		s.Require().NoError(err)
		s.Nil(got)
	})

	s.Run("duplicate phone", func() {
		dup := &models.User{
			ID: uuid.New(), Name: "Other", Email: "other@example.com", Race: "malay", Gender: "female",
			MaritalStatus: "single", Occupation: "Nurse",
			Phone: &models.Phone{ID: uuid.New(), CountryCode: "65", Number: "91234567"},
		}
		s.Require().ErrorIs(s.s.users.Create(s.ctx, dup), ErrDuplicate)
	})

	s.Run("delete removes the phone too", func() {
		deleted, err := s.s.users.DeleteByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u.ID, deleted.ID)

		got, err := s.s.users.FindByPhone(s.ctx, "65", "91234567")
		s.Require().NoError(err)
		s.Nil(got)

		_, err = s.s.users.FindByID(s.ctx, u.ID)
		s.Require().ErrorIs(err, ErrNotFound)

		s.newUser("65", "91234567", "again@example.com")
	})
}

func (s *ContractSuite) TestKioskManagers() {
	m := &models.KioskManager{
		ID:         uuid.New(),
		Email:      "km@example.com",
		FirstName:  "Siti",
		LastName:   "Rahman",
		KioskPhone: &models.KioskPhone{ID: uuid.New(), CountryCode: "65", Number: "81234567"},
	}
	s.Require().NoError(s.s.managers.Create(s.ctx, m))

	got, err := s.s.managers.FindByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal("Siti", got.FirstName)

	list, err := s.s.managers.List(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.s.managers.DeleteByID(s.ctx, m.ID)
	s.Require().NoError(err)
	_, err = s.s.managers.FindByID(s.ctx, m.ID)
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *ContractSuite) TestEvents() {
	caseID := uuid.New()
	base := time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.s.events.Append(s.ctx, &models.CaseEvent{
		ID: uuid.New(), CaseID: caseID, EventType: models.CaseCreated, NewValue: "open", CreatedAt: base,
	}))
	s.Require().NoError(s.s.events.Append(s.ctx, &models.CaseEvent{
		ID: uuid.New(), CaseID: caseID, EventType: models.StatusUpdated, PreviousValue: "open", NewValue: "closed",
		CreatedAt: base.Add(time.Second),
	}))
	s.Require().NoError(s.s.events.Append(s.ctx, &models.CaseEvent{
		ID: uuid.New(), CaseID: uuid.New(), EventType: models.CaseCreated, CreatedAt: base,
	}))

	events, err := s.s.events.ListByCase(s.ctx, caseID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(models.CaseCreated, events[0].EventType)
	s.Equal(models.StatusUpdated, events[1].EventType)
}

func (s *ContractSuite) TestEventsSharingATimestampKeepWriteOrder() {
	caseID := uuid.New()
	at := time.Now().UTC().Truncate(time.Microsecond)
	order := []models.CaseEventType{models.CaseAssigned, models.StatusUpdated, models.CaseCategorized}
	for _, eventType := range order {
		s.Require().NoError(s.s.events.Append(s.ctx, &models.CaseEvent{
			ID: uuid.New(), CaseID: caseID, EventType: eventType, CreatedAt: at,
		}))
	}

	events, err := s.s.events.ListByCase(s.ctx, caseID)
	s.Require().NoError(err)
	s.Require().Len(events, len(order))
	for i, eventType := range order {
		s.Equal(eventType, events[i].EventType)
	}
	s.Less(events[0].Seq, events[1].Seq)
	s.Less(events[1].Seq, events[2].Seq)
}
