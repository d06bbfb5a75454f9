package request

type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Birthdate string `json:"birthdate" validate:"required,datetime=2006-01-02"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,maxbytes=72"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type CreateTodoRequest struct {
	Label string `json:"label" validate:"required,min=1,max=255"`
}

type UpdateTodoRequest struct {
	ID    int    `json:"id" validate:"required,gt=0"`
	Label string `json:"label" validate:"required,min=1,max=255"`
}

type ListTodosQuery struct {
	Offset int `form:"offset,default=0" validate:"gte=0"`
	Limit  int `form:"limit,default=10" validate:"gte=1,lte=100"`
}

type TodoPath struct {
	ID int `uri:"id" validate:"required,gt=0"`
}
