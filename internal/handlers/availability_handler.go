package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/dto"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/httpresp"
	ucAvailability "github.com/medplus/clinic-scheduler/internal/usecase/availability"
)

// AvailabilityHandler manages the authenticated doctor's weekly slots.
type AvailabilityHandler struct {
	add        *ucAvailability.AddSlot
	update     *ucAvailability.UpdateSlot
	deactivate *ucAvailability.DeactivateSlot
	list       *ucAvailability.ListSlots
}

func NewAvailabilityHandler(
	add *ucAvailability.AddSlot,
	update *ucAvailability.UpdateSlot,
	deactivate *ucAvailability.DeactivateSlot,
	list *ucAvailability.ListSlots,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		add:        add,
		update:     update,
		deactivate: deactivate,
		list:       list,
	}
}

type SlotRequest struct {
	Weekday   string `json:"weekday" binding:"required,weekday"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
}

type UpdateSlotRequest struct {
	SlotRequest
	Active *bool `json:"active"`
}

func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req SlotRequest
	if !bindJSON(c, &req) {
		return
	}

	day, err := availability.ParseWeekday(req.Weekday)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	slot, err := h.add.Execute(c.Request.Context(), ucAvailability.AddSlotInput{
		DoctorID: currentUserID(c),
		Weekday:  day,
		Start:    req.StartTime,
		End:      req.EndTime,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.Slot(*slot))
}

// List accepts ?weekday=MONDAY.
func (h *AvailabilityHandler) List(c *gin.Context) {
	var day *time.Weekday
	if raw := c.Query("weekday"); raw != "" {
		d, err := availability.ParseWeekday(raw)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		day = &d
	}

	slots, err := h.list.Execute(c.Request.Context(), currentUserID(c), day)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.Slots(slots))
}

func (h *AvailabilityHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	day, err := availability.ParseWeekday(req.Weekday)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	slot, err := h.update.Execute(c.Request.Context(), ucAvailability.UpdateSlotInput{
		SlotID:  id,
		OwnerID: currentUserID(c),
		Weekday: day,
		Start:   req.StartTime,
		End:     req.EndTime,
		Active:  active,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.Slot(*slot))
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.deactivate.Execute(c.Request.Context(), id, currentUserID(c)); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
