package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/infra/memtest"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/validators"
)

func init() {
	hashCost = bcrypt.MinCost
}

type fixture struct {
	store    *memtest.Store
	audit    *memtest.AuditRecorder
	register *Register
	login    *Login
	profile  *Profile
	dir      *Directory
}

func newFixture() *fixture {
	store := memtest.NewStore()
	rec := &memtest.AuditRecorder{}
	check := validators.NewEmailCheck(false)

	return &fixture{
		store:    store,
		audit:    rec,
		register: NewRegister(store, check, rec),
		login:    NewLogin(store),
		profile:  NewProfile(store, check, rec),
		dir:      NewDirectory(store),
	}
}

func patientInput(email string) RegisterInput {
	return RegisterInput{
		Role:     models.RolePatient,
		Name:     "Ana Lima",
		Email:    email,
		Password: "segredo123",
		CPF:      "123.456.789-00",
	}
}

func TestRegister_Patient(t *testing.T) {
	f := newFixture()

	u, err := f.register.Execute(context.Background(), patientInput("  Ana@Example.com "))
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", u.Email)
	assert.True(t, u.Active)
	assert.True(t, u.HasRole(models.RolePatient))
	assert.NotNil(t, u.Patient)
	assert.NotEqual(t, "segredo123", u.PasswordHash)
	assert.Equal(t, []string{"user_registered"}, f.audit.Actions())
}

func TestRegister_Rejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.register.Execute(ctx, patientInput("ana@example.com"))
	require.NoError(t, err)

	dup := patientInput("ANA@example.com")
	dup.CPF = ""
	_, err = f.register.Execute(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrEmailInUse)

	_, err = f.register.Execute(ctx, patientInput("other@example.com"))
	assert.ErrorIs(t, err, domain.ErrCPFInUse)

	_, err = f.register.Execute(ctx, RegisterInput{Role: models.RoleDoctor, Name: "Dr", Email: "dr@example.com", Password: "x"})
	assert.True(t, httperr.IsBusiness(err, "doctor_profile_required"))

	_, err = f.register.Execute(ctx, RegisterInput{Role: "RECEPCAO", Email: "r@example.com"})
	assert.True(t, httperr.IsBusiness(err, "invalid_role"))

	_, err = f.register.Execute(ctx, patientInput("no-domain"))
	assert.ErrorIs(t, err, domain.ErrInvalidEmailDomain)
}

func TestRegister_DoctorCRMUnique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := RegisterInput{Role: models.RoleDoctor, Name: "Dr A", Email: "a@clinic.test", Password: "x", CRM: "CRM-1", Specialty: "Cardiologia"}
	u, err := f.register.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Cardiologia", u.Doctor.Specialty)

	in.Email = "b@clinic.test"
	_, err = f.register.Execute(ctx, in)
	assert.ErrorIs(t, err, domain.ErrCRMInUse)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u, err := f.register.Execute(ctx, patientInput("ana@example.com"))
	require.NoError(t, err)

	got, err := f.login.Execute(ctx, "ANA@example.com", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.login.Execute(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.login.Execute(ctx, "nobody@example.com", "segredo123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.profile.SetActive(ctx, u.ID, false, u.ID)
	require.NoError(t, err)

	_, err = f.login.Execute(ctx, "ana@example.com", "segredo123")
	assert.ErrorIs(t, err, domain.ErrInactive)
}

func TestProfile_UpdateAndPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u, err := f.register.Execute(ctx, patientInput("ana@example.com"))
	require.NoError(t, err)
	_, err = f.register.Execute(ctx, RegisterInput{Role: models.RolePatient, Name: "B", Email: "b@example.com", Password: "x"})
	require.NoError(t, err)

	name, history := "Ana Souza", "asma"
	got, err := f.profile.Update(ctx, u.ID, ProfileInput{Name: &name, MedicalHistory: &history}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", got.Name)
	assert.Equal(t, "asma", got.Patient.MedicalHistory)

	taken := "b@example.com"
	_, err = f.profile.Update(ctx, u.ID, ProfileInput{Email: &taken}, u.ID)
	assert.ErrorIs(t, err, domain.ErrEmailInUse)

	err = f.profile.ChangePassword(ctx, u.ID, "wrong", "nova")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, f.profile.ChangePassword(ctx, u.ID, "segredo123", "nova-senha"))
	_, err = f.login.Execute(ctx, "ana@example.com", "nova-senha")
	assert.NoError(t, err)
}

func TestDirectory_Doctors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.AddDoctor("Carlos", "CRM-1", "Cardiologia")
	f.store.AddDoctor("Beatriz", "CRM-2", "Dermatologia")
	off := f.store.AddDoctor("Inativo", "CRM-3", "Cardiologia")
	f.store.SetActive(off.ID, false)
	f.store.AddPatient("Ana", "ana@example.com")

	all, err := f.dir.Doctors(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cardio, err := f.dir.Doctors(ctx, "cardiologia")
	require.NoError(t, err)
	require.Len(t, cardio, 1)
	assert.Equal(t, "Carlos", cardio[0].Name)
}
