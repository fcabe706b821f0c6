package account

type AddVehicleRequest struct {
	LicensePlate string `json:"license_plate" binding:"required" validate:"required,max=32"`
	Brand        string `json:"brand" validate:"max=64"`
	Model        string `json:"model" validate:"max=64"`
	Year         int    `json:"year" validate:"omitempty,gte=1950,lte=2100"`
}
