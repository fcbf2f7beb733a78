package holiday

type CreateHolidayRequest struct {
	Date       string `json:"date" binding:"required"`
	Name       string `json:"name" binding:"required,max=100"`
	IsCritical bool   `json:"is_critical"`
}

type UpdateHolidayRequest struct {
	Date       string `json:"date" binding:"required"`
	Name       string `json:"name" binding:"required,max=100"`
	IsCritical bool   `json:"is_critical"`
}

type HolidayResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	IsCritical bool   `json:"is_critical"`
}
