package availability

import (
	"context"
	"time"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type AddSlotInput struct {
	DoctorID uint
	Weekday  time.Weekday
	Start    string
	End      string
}

// ======================================================
// USE CASE
// ======================================================

type AddSlot struct {
	doctors domain.DoctorLookup
	repo    domain.Repository
	audit   audit.Recorder
}

func NewAddSlot(
	doctors domain.DoctorLookup,
	repo domain.Repository,
	audit audit.Recorder,
) *AddSlot {
	return &AddSlot{
		doctors: doctors,
		repo:    repo,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *AddSlot) Execute(
	ctx context.Context,
	in AddSlotInput,
) (*models.AvailabilitySlot, error) {

	// --------------------------------------------------
	// 1️⃣ Médico
	// --------------------------------------------------
	if _, err := uc.doctors.GetDoctor(ctx, in.DoctorID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Intervalo
	// --------------------------------------------------
	day, start, end, err := normalize(in.Weekday, in.Start, in.End)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Sobreposição com outras disponibilidades ativas
	// --------------------------------------------------
	overlap, err := uc.repo.ExistsOverlap(ctx, in.DoctorID, day, start, end, 0)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, domain.ErrOverlap
	}

	// --------------------------------------------------
	// 4️⃣ Duplicata exata (ativa ou não)
	// --------------------------------------------------
	dup, err := uc.repo.FindExactMatch(ctx, in.DoctorID, day, start, end)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, domain.ErrDuplicateSlot
	}

	// --------------------------------------------------
	// 5️⃣ Criação
	// --------------------------------------------------
	slot := &models.AvailabilitySlot{
		DoctorID:  in.DoctorID,
		Weekday:   int(day),
		StartTime: start,
		EndTime:   end,
		Active:    true,
	}

	if err := uc.repo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(in.DoctorID),
		Action:   "availability_added",
		Entity:   "availability_slot",
		EntityID: audit.Ptr(slot.ID),
	})

	return slot, nil
}

func normalize(day time.Weekday, rawStart, rawEnd string) (time.Weekday, string, string, error) {
	if day < time.Sunday || day > time.Saturday {
		return 0, "", "", httperr.Validationf("invalid_weekday", "Dia da semana inválido: %d", day)
	}

	start, err := domain.ParseClock(rawStart)
	if err != nil {
		return 0, "", "", err
	}
	end, err := domain.ParseClock(rawEnd)
	if err != nil {
		return 0, "", "", err
	}

	if err := domain.ValidateRange(start, end); err != nil {
		return 0, "", "", err
	}
	return day, start, end, nil
}
