package domain

type UserID = int64
