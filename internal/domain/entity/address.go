package entity

// Address dirección de envío guardada por el usuario.
// La API garantiza como mucho una con IsDefault por usuario.
type Address struct {
	ID            int64  `json:"id"`
	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone"`
	StreetAddress string `json:"streetAddress"`
	WardName      string `json:"wardName"`
	DistrictName  string `json:"districtName"`
	ProvinceName  string `json:"provinceName"`
	FullAddress   string `json:"fullAddress"`
	Note          string `json:"note"`
	IsDefault     bool   `json:"isDefault"`
}

// DefaultAddress devuelve la dirección marcada por defecto, o nil.
func DefaultAddress(list []Address) *Address {
	for i := range list {
		if list[i].IsDefault {
			a := list[i]
			return &a
		}
	}
	return nil
}

// FindAddress busca por ID.
func FindAddress(list []Address, id int64) *Address {
	for i := range list {
		if list[i].ID == id {
			a := list[i]
			return &a
		}
	}
	return nil
}
