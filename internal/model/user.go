// Package model はドメインモデルを定義する。
package model

// User は永続化されるユーザーレコードを表す。
// IDはIdP発行のsubject識別子をそのまま使用する。
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Phone         *string // このフローでは常にnil（IdPが電話番号を提供しないため）
	LogInProvider string
}
