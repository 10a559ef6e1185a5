package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

var meetingTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// parseMeetingTime accepts RFC3339 or a bare date. Zone-less values are UTC.
func parseMeetingTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range meetingTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// MeetingHandler serves the admin calendar.
type MeetingHandler struct {
	meetings ports.MeetingService
}

func NewMeetingHandler(meetings ports.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

func toMeetingItem(m domain.Meeting) meetingItem {
	return meetingItem{ID: m.ID, Title: m.Title, Start: m.Start, End: m.End, AllDay: m.AllDay}
}

// List handles GET /admin/meetings?start=&end=.
//
// @Summary      List meetings
// @Tags         meetings
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  false  "Range start (RFC3339 or YYYY-MM-DD)"
// @Param        end    query     string  false  "Range end (RFC3339 or YYYY-MM-DD)"
// @Success      200    {array}   meetingItem
// @Failure      400    {object}  errorResponse
// @Router       /admin/meetings [get]
func (h *MeetingHandler) List(c echo.Context) error {
	var from, to *time.Time
	var problems []string
	if raw := c.QueryParam("start"); raw != "" {
		if t, ok := parseMeetingTime(raw); ok {
			from = &t
		} else {
			problems = append(problems, "start must be RFC3339 or YYYY-MM-DD")
		}
	}
	if raw := c.QueryParam("end"); raw != "" {
		if t, ok := parseMeetingTime(raw); ok {
			to = &t
		} else {
			problems = append(problems, "end must be RFC3339 or YYYY-MM-DD")
		}
	}
	if err := domain.NewValidationError(problems...); err != nil {
		return err
	}

	meetings, err := h.meetings.List(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	items := make([]meetingItem, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, toMeetingItem(m))
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /admin/meetings.
//
// @Summary      Create a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      meetingRequest  true  "Meeting"
// @Success      201   {object}  meetingItem
// @Failure      400   {object}  errorResponse
// @Router       /admin/meetings [post]
func (h *MeetingHandler) Create(c echo.Context) error {
	var req meetingRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	in := ports.CreateMeetingInput{Title: req.Title, Description: req.Description, AllDay: req.AllDay}
	var problems []string
	if req.Start != "" {
		t, ok := parseMeetingTime(req.Start)
		if !ok {
			problems = append(problems, "start must be RFC3339 or YYYY-MM-DD")
		}
		in.Start = &t
	}
	if req.End != nil && *req.End != "" {
		t, ok := parseMeetingTime(*req.End)
		if !ok {
			problems = append(problems, "end must be RFC3339 or YYYY-MM-DD")
		}
		in.End = &t
	}
	if err := domain.NewValidationError(problems...); err != nil {
		return err
	}

	m, err := h.meetings.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMeetingItem(*m))
}

// Update handles PUT /admin/meetings/:id. Absent fields are left untouched
// and "end": null clears the end time.
//
// @Summary      Update a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Meeting ID"
// @Param        body  body      meetingRequest  true  "Fields to change"
// @Success      200   {object}  meetingItem
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/meetings/{id} [put]
func (h *MeetingHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	in, err := meetingPatch(fields)
	if err != nil {
		return err
	}

	m, err := h.meetings.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMeetingItem(*m))
}

func meetingPatch(fields map[string]json.RawMessage) (ports.UpdateMeetingInput, error) {
	var in ports.UpdateMeetingInput
	var problems []string

	for key, raw := range fields {
		isNull := string(raw) == "null"
		switch key {
		case "title", "description":
			if isNull {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				problems = append(problems, key+" must be a string")
				continue
			}
			if key == "title" {
				in.Title = &s
			} else {
				in.Description = &s
			}
		case "start", "end":
			if isNull {
				if key == "end" {
					in.ClearEnd = true
				}
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				problems = append(problems, key+" must be RFC3339 or YYYY-MM-DD")
				continue
			}
			t, ok := parseMeetingTime(s)
			if !ok {
				problems = append(problems, key+" must be RFC3339 or YYYY-MM-DD")
				continue
			}
			if key == "start" {
				in.Start = &t
			} else {
				in.End = &t
			}
		case "allDay":
			if isNull {
				continue
			}
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				problems = append(problems, "allDay must be a boolean")
				continue
			}
			in.AllDay = &b
		}
	}
	return in, domain.NewValidationError(problems...)
}

// Delete handles DELETE /admin/meetings/:id.
//
// @Summary      Delete a meeting
// @Tags         meetings
// @Security     BearerAuth
// @Param        id  path  int  true  "Meeting ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/meetings/{id} [delete]
func (h *MeetingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.meetings.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
