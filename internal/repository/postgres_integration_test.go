//go:build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/michaelhiggins8/vimpound-backend/internal/config"
	"github.com/michaelhiggins8/vimpound-backend/internal/database"
)

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getTestDB(t *testing.T) *sql.DB {
	cfg := &config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "vimpound"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
		MaxConns: 5,
		MaxIdle:  1,
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil
	}
	if err := db.Ping(); err != nil {
		t.Skipf("Skipping integration test: cannot ping database: %v", err)
		return nil
	}
	return db
}

// createTestUser provisions a fresh org+profile pair and returns the user id.
func createTestUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	userID := uuid.NewString()
	profiles := NewPostgresProfilesRepo(db)
	_, err := profiles.CreateOrgAndProfile(context.Background(), userID)
	require.NoError(t, err)
	return userID
}

func TestPostgresProfiles_CreateOrgAndProfile(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := uuid.NewString()
	profiles := NewPostgresProfilesRepo(db)

	p, err := profiles.CreateOrgAndProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, userID, p.ID)
	require.NotEmpty(t, p.OrgID)

	got, err := profiles.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, p.OrgID, got.OrgID)

	orgID, err := profiles.OrgIDForUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, p.OrgID, orgID)
}

func TestPostgresOrgs_ColumnUpdatesAndReads(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := createTestUser(t, db)
	orgs := NewPostgresOrgsRepo(db)

	require.NoError(t, orgs.SetAgentName(ctx, userID, "Alex"))
	require.NoError(t, orgs.SetCompanyName(ctx, userID, "Desert Towing"))
	require.NoError(t, orgs.SetTimeZone(ctx, userID, "America/Phoenix"))

	docs := "* Title\n* Photo ID"
	require.NoError(t, orgs.SetDocumentsNeeded(ctx, userID, &docs))

	org, err := orgs.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Alex", org.AgentName.String)
	require.Equal(t, "Desert Towing", org.CompanyName.String)
	require.Equal(t, docs, org.DocumentsNeeded.String)

	// nil stores NULL.
	require.NoError(t, orgs.SetDocumentsNeeded(ctx, userID, nil))
	org, err = orgs.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.False(t, org.DocumentsNeeded.Valid)
}

func TestPostgresOrgs_PhoneBindingAndLookup(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := createTestUser(t, db)
	orgs := NewPostgresOrgsRepo(db)
	profiles := NewPostgresProfilesRepo(db)

	number := "+1" + uuid.NewString()[:10]
	require.NoError(t, orgs.SetPhoneBinding(ctx, userID, number, "pn-test"))

	org, err := orgs.GetByPhoneNumber(ctx, number)
	require.NoError(t, err)
	require.Equal(t, number, org.PhoneNumber.String)

	customerID, err := profiles.IDByOrgPhoneNumber(ctx, number)
	require.NoError(t, err)
	require.Equal(t, userID, customerID)

	gotNumber, gotID, err := orgs.GetPhoneBinding(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, number, gotNumber)
	require.Equal(t, "pn-test", gotID)
}

func TestPostgresVehicles_CreateFindDelete(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := createTestUser(t, db)
	vehicles := NewPostgresVehiclesRepo(db)

	vin := uuid.NewString()
	v, err := vehicles.Create(ctx, userID, NewVehicle{
		Status:      "impounded",
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2019,
		Color:       "blue",
		VINNumber:   vin,
		PlateNumber: "PLATE-" + vin[:6],
	})
	require.NoError(t, err)
	require.NotEmpty(t, v.ID)

	found, err := vehicles.FindByVINOrPlate(ctx, v.OrgID, vin, "")
	require.NoError(t, err)
	require.Equal(t, v.ID, found.ID)

	// A vehicle stored with blank VIN/plate must not match empty arguments.
	blank, err := vehicles.Create(ctx, userID, NewVehicle{Make: "Honda"})
	require.NoError(t, err)
	found, err = vehicles.FindByVINOrPlate(ctx, v.OrgID, "", v.PlateNumber.String)
	require.NoError(t, err)
	require.Equal(t, v.ID, found.ID)
	_, err = vehicles.FindByVINOrPlate(ctx, v.OrgID, "", "")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, vehicles.Delete(ctx, userID, blank.ID))

	listed, err := vehicles.ListByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, vehicles.Delete(ctx, userID, v.ID))
	_, err = vehicles.FindByVINOrPlate(ctx, v.OrgID, vin, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresVehicles_OtherUserCannotDelete(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	vehicles := NewPostgresVehiclesRepo(db)

	v, err := vehicles.Create(ctx, owner, NewVehicle{VINNumber: uuid.NewString()})
	require.NoError(t, err)

	require.ErrorIs(t, vehicles.Delete(ctx, stranger, v.ID), ErrNotFound)
	require.NoError(t, vehicles.Delete(ctx, owner, v.ID))
}

func TestPostgresExceptionDates_Lifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := createTestUser(t, db)
	exceptionDates := NewPostgresExceptionDatesRepo(db)

	ed, err := exceptionDates.Create(ctx, userID, "12/25", "Closed")
	require.NoError(t, err)

	got, err := exceptionDates.GetByOrgAndDate(ctx, ed.OrgID, "12/25")
	require.NoError(t, err)
	require.Equal(t, "Closed", got.Hours)

	require.NoError(t, exceptionDates.UpdateHours(ctx, userID, ed.ID, "10 AM - 2 PM"))
	got, err = exceptionDates.GetByOrgAndDate(ctx, ed.OrgID, "12/25")
	require.NoError(t, err)
	require.Equal(t, "10 AM - 2 PM", got.Hours)

	require.NoError(t, exceptionDates.Delete(ctx, userID, ed.ID))
	_, err = exceptionDates.GetByOrgAndDate(ctx, ed.OrgID, "12/25")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresAddresses_Lifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := createTestUser(t, db)
	addresses := NewPostgresAddressesRepo(db)

	a, err := addresses.Create(ctx, userID, "100 Main St")
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	listed, err := addresses.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "100 Main St", listed[0].Address)

	require.NoError(t, addresses.Delete(ctx, userID, a.ID))
	listed, err = addresses.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, listed)
}
