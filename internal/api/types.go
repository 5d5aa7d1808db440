package api

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"github.com/marham/hospital-backend/internal/booking"
	"github.com/marham/hospital-backend/internal/encounter"
	"github.com/marham/hospital-backend/internal/schedule"
	"github.com/marham/hospital-backend/internal/ward"
)

// flexBool accepts true, 1 and "1" as true, matching the loose encodings
// clients send for availability flags.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	switch string(data) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// --- auth ---

type SignupDoctorRequest struct {
	Name               string  `json:"name"`
	Password           string  `json:"password"`
	Age                int     `json:"age"`
	SpecializationID   int     `json:"specialization_id"`
	ExperienceYears    int     `json:"experience_years"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
}

type SignupPatientRequest struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"blood_group,omitempty"`
}

type SignupReceptionistRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SigninRequest struct {
	UserType string `json:"user_type"`
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type SessionResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	UserType  string    `json:"user_type"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- schedule ---

type TemplateSlotRequest struct {
	DayOfWeek int      `json:"day_of_week"`
	SlotID    string   `json:"slot_id"`
	Available flexBool `json:"is_available"`
}

type ReplaceTemplateRequest struct {
	Slots []TemplateSlotRequest `json:"slots"`
}

type ReplaceTemplateResponse struct {
	SlotsSaved int `json:"slots_saved"`
}

type TimeSlotResponse struct {
	ID         uuid.UUID `json:"id"`
	SlotNumber int       `json:"slot_number"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

type TemplateEntryResponse struct {
	DayOfWeek  int       `json:"day_of_week"`
	SlotID     uuid.UUID `json:"slot_id"`
	SlotNumber int       `json:"slot_number"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

func toTemplateEntryResponse(e schedule.TemplateEntry) TemplateEntryResponse {
	return TemplateEntryResponse{
		DayOfWeek:  e.DayOfWeek,
		SlotID:     e.SlotID,
		SlotNumber: e.SlotNumber,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
	}
}

// --- booking ---

type CreateAppointmentRequest struct {
	PatientID    string  `json:"patient_id"`
	DoctorID     string  `json:"doctor_id"`
	Date         string  `json:"appointment_date"`
	SlotID       string  `json:"slot_id"`
	BookedByType string  `json:"booked_by_type"`
	BookedByID   string  `json:"booked_by_id"`
	Notes        *string `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	StatusID int `json:"status_id"`
}

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patient_id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	Date         string    `json:"appointment_date"`
	SlotID       uuid.UUID `json:"slot_id"`
	StatusID     int       `json:"status_id"`
	Status       string    `json:"status"`
	BookedByType string    `json:"booked_by_type"`
	BookedByID   uuid.UUID `json:"booked_by_id"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		DoctorID:     a.DoctorID,
		Date:         a.Date.Format("2006-01-02"),
		SlotID:       a.SlotID,
		StatusID:     int(a.Status),
		Status:       a.Status.String(),
		BookedByType: a.BookedByType,
		BookedByID:   a.BookedByID,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
	}
}

type AppointmentDetailResponse struct {
	AppointmentResponse
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	SlotNumber  int    `json:"slot_number"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func toAppointmentDetailResponse(d *booking.AppointmentDetail) AppointmentDetailResponse {
	return AppointmentDetailResponse{
		AppointmentResponse: toAppointmentResponse(&d.Appointment),
		PatientName:         d.PatientName,
		DoctorName:          d.DoctorName,
		SlotNumber:          d.SlotNumber,
		StartTime:           d.StartTime,
		EndTime:             d.EndTime,
	}
}

// --- encounter ---

type PrescriptionRequest struct {
	MedicineName string  `json:"medicine_name"`
	Dosage       *string `json:"dosage,omitempty"`
	Frequency    *string `json:"frequency,omitempty"`
	Duration     *string `json:"duration,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

type VitalsRequest struct {
	BloodPressure *string  `json:"blood_pressure,omitempty"`
	HeartRate     *int     `json:"heart_rate,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	OxygenLevel   *int     `json:"oxygen_level,omitempty"`
	Symptoms      *string  `json:"symptoms,omitempty"`
	Diagnosis     *string  `json:"diagnosis,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (v VitalsRequest) toVitals() encounter.Vitals {
	return encounter.Vitals{
		BloodPressure: v.BloodPressure,
		HeartRate:     v.HeartRate,
		Temperature:   v.Temperature,
		OxygenLevel:   v.OxygenLevel,
		Symptoms:      v.Symptoms,
		Diagnosis:     v.Diagnosis,
		Notes:         v.Notes,
	}
}

type CreateConsultationRequest struct {
	AppointmentID     string                `json:"appointment_id"`
	Vitals            VitalsRequest         `json:"vitals"`
	RequiresAdmission flexBool              `json:"requires_admission"`
	AssignedRoomID    *string               `json:"assigned_room_id,omitempty"`
	Prescriptions     []PrescriptionRequest `json:"prescriptions,omitempty"`
}

type PrescriptionResponse struct {
	ID           uuid.UUID `json:"id"`
	MedicineName string    `json:"medicine_name"`
	Dosage       *string   `json:"dosage,omitempty"`
	Frequency    *string   `json:"frequency,omitempty"`
	Duration     *string   `json:"duration,omitempty"`
	Instructions *string   `json:"instructions,omitempty"`
}

func toPrescriptionResponse(p encounter.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:           p.ID,
		MedicineName: p.MedicineName,
		Dosage:       p.Dosage,
		Frequency:    p.Frequency,
		Duration:     p.Duration,
		Instructions: p.Instructions,
	}
}

type ConsultationResponse struct {
	ID                uuid.UUID  `json:"id"`
	AppointmentID     uuid.UUID  `json:"appointment_id"`
	BloodPressure     *string    `json:"blood_pressure,omitempty"`
	HeartRate         *int       `json:"heart_rate,omitempty"`
	Temperature       *float64   `json:"temperature,omitempty"`
	OxygenLevel       *int       `json:"oxygen_level,omitempty"`
	Symptoms          *string    `json:"symptoms,omitempty"`
	Diagnosis         *string    `json:"diagnosis,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	RequiresAdmission bool       `json:"requires_admission"`
	AssignedRoomID    *uuid.UUID `json:"assigned_room_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toConsultationResponse(c *encounter.Consultation) ConsultationResponse {
	return ConsultationResponse{
		ID:                c.ID,
		AppointmentID:     c.AppointmentID,
		BloodPressure:     c.BloodPressure,
		HeartRate:         c.HeartRate,
		Temperature:       c.Temperature,
		OxygenLevel:       c.OxygenLevel,
		Symptoms:          c.Symptoms,
		Diagnosis:         c.Diagnosis,
		Notes:             c.Notes,
		RequiresAdmission: c.RequiresAdmission,
		AssignedRoomID:    c.AssignedRoomID,
		CreatedAt:         c.CreatedAt,
	}
}

type ConsultationDetailResponse struct {
	ConsultationResponse
	AppointmentDate string                 `json:"appointment_date"`
	PatientID       uuid.UUID              `json:"patient_id"`
	PatientName     string                 `json:"patient_name"`
	DoctorID        uuid.UUID              `json:"doctor_id"`
	DoctorName      string                 `json:"doctor_name"`
	Prescriptions   []PrescriptionResponse `json:"prescriptions"`
}

func toConsultationDetailResponse(d *encounter.ConsultationDetail) ConsultationDetailResponse {
	prescriptions := make([]PrescriptionResponse, 0, len(d.Prescriptions))
	for _, p := range d.Prescriptions {
		prescriptions = append(prescriptions, toPrescriptionResponse(p))
	}
	return ConsultationDetailResponse{
		ConsultationResponse: toConsultationResponse(&d.Consultation),
		AppointmentDate:      d.AppointmentDate.Format("2006-01-02"),
		PatientID:            d.PatientID,
		PatientName:          d.PatientName,
		DoctorID:             d.DoctorID,
		DoctorName:           d.DoctorName,
		Prescriptions:        prescriptions,
	}
}

// --- ward ---

type CreateRoomRequest struct {
	RoomNumber  string `json:"room_number"`
	RoomTypeID  string `json:"room_type_id"`
	FloorNumber int    `json:"floor_number"`
	TotalBeds   int    `json:"total_beds"`
}

type SetBedsRequest struct {
	AvailableBeds int `json:"available_beds"`
}

type AdmitRequest struct {
	PatientID      string `json:"patient_id"`
	ConsultationID string `json:"consultation_id"`
	RoomID         string `json:"room_id"`
	DoctorID       string `json:"doctor_id"`
}

type DischargeRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type TransferRequest struct {
	NewRoomID string `json:"new_room_id"`
}

type RoomTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

type RoomResponse struct {
	ID            uuid.UUID `json:"id"`
	RoomNumber    string    `json:"room_number"`
	RoomTypeID    uuid.UUID `json:"room_type_id"`
	RoomType      string    `json:"room_type,omitempty"`
	FloorNumber   int       `json:"floor_number"`
	TotalBeds     int       `json:"total_beds"`
	AvailableBeds int       `json:"available_beds"`
	Active        bool      `json:"is_active"`
}

func toRoomResponse(r *ward.Room) RoomResponse {
	return RoomResponse{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		RoomTypeID:    r.RoomTypeID,
		FloorNumber:   r.FloorNumber,
		TotalBeds:     r.TotalBeds,
		AvailableBeds: r.AvailableBeds,
		Active:        r.Active,
	}
}

func toRoomDetailResponse(d *ward.RoomDetail) RoomResponse {
	resp := toRoomResponse(&d.Room)
	resp.RoomType = d.TypeName
	return resp
}

type OccupantResponse struct {
	AdmissionID uuid.UUID `json:"admission_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	DoctorName  string    `json:"doctor_name"`
	AdmittedAt  time.Time `json:"admitted_at"`
}

type AdmissionResponse struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	ConsultationID uuid.UUID  `json:"consultation_id"`
	RoomID         uuid.UUID  `json:"room_id"`
	DoctorID       uuid.UUID  `json:"doctor_id"`
	Status         string     `json:"status"`
	AdmittedAt     time.Time  `json:"admitted_at"`
	DischargedAt   *time.Time `json:"discharged_at,omitempty"`
	DischargeNotes *string    `json:"discharge_notes,omitempty"`
}

func toAdmissionResponse(a *ward.Admission) AdmissionResponse {
	return AdmissionResponse{
		ID:             a.ID,
		PatientID:      a.PatientID,
		ConsultationID: a.ConsultationID,
		RoomID:         a.RoomID,
		DoctorID:       a.DoctorID,
		Status:         string(a.Status),
		AdmittedAt:     a.AdmittedAt,
		DischargedAt:   a.DischargedAt,
		DischargeNotes: a.DischargeNotes,
	}
}

type AdmissionDetailResponse struct {
	AdmissionResponse
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	RoomNumber  string `json:"room_number"`
	RoomType    string `json:"room_type"`
}

func toAdmissionDetailResponse(d *ward.AdmissionDetail) AdmissionDetailResponse {
	return AdmissionDetailResponse{
		AdmissionResponse: toAdmissionResponse(&d.Admission),
		PatientName:       d.PatientName,
		DoctorName:        d.DoctorName,
		RoomNumber:        d.RoomNumber,
		RoomType:          d.RoomType,
	}
}

type StatsResponse struct {
	TotalAdmissions int `json:"total_admissions"`
	Active          int `json:"active_admissions"`
	Discharged      int `json:"discharged_admissions"`
}
