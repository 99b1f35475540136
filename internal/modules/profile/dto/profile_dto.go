package dto

// UpdateAccountRequest 设置账户 ID，空字符串表示清除
type UpdateAccountRequest struct {
	AccountID string `json:"account_id" validate:"omitempty,stellar_account" example:"GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"`
}

// AccountResponse 用户的账户 ID，未设置时 account_id 为空
type AccountResponse struct {
	UserID    string `json:"user_id" example:"9f3c2c4e-0c55-4a4f-9d43-2f7c1c1f8a11"`
	AccountID string `json:"account_id" example:"GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"`
}
