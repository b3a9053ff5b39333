package dto

// AddressRequest alta de dirección de envío.
type AddressRequest struct {
	ReceiverName  string `json:"receiverName" form:"receiverName"`
	ReceiverPhone string `json:"receiverPhone" form:"receiverPhone"`
	StreetAddress string `json:"streetAddress" form:"streetAddress"`
	WardName      string `json:"wardName" form:"wardName"`
	DistrictName  string `json:"districtName" form:"districtName"`
	ProvinceName  string `json:"provinceName" form:"provinceName"`
	Note          string `json:"note,omitempty" form:"note"`
	IsDefault     bool   `json:"isDefault" form:"isDefault"`
}
