package user

// DefaultRole is given to every self-registered user. Other roles are
// assigned through the role route.
const DefaultRole = "author"

type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password,omitempty"`
	Phone     string  `json:"phone"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"createdAt"`
	Avatar    string  `json:"avatar"`
	Resume    *Resume `json:"resume,omitempty"`
}

type SocialMedia struct {
	Provider string `json:"provider" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
}

// Resume is the extended public profile stored on the user record.
type Resume struct {
	SocialMedia []SocialMedia `json:"socialMedia" validate:"dive"`
	Articles    []string      `json:"articles"`
	Diploma     []string      `json:"diploma"`
	Skills      []string      `json:"skills" validate:"dive,required"`
	MicroResume string        `json:"microResume"`
	ProjectRole string        `json:"projectRole"`
}

// Profile is the public view served with the resume: no password, phone,
// role or createdAt.
type Profile struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar string  `json:"avatar"`
	Resume *Resume `json:"resume"`
}

// AuthorProps is the byline attached to post cards.
type AuthorProps struct {
	Name        string        `json:"name"`
	Avatar      string        `json:"avatar"`
	SocialMedia []SocialMedia `json:"socialMedia"`
}

// Details are the fields replaced by a general profile update.
type Details struct {
	Name   string
	Email  string
	Phone  string
	Avatar string
}

func sanitizeUser(user User) User {
	user.Password = ""
	return user
}

func (u User) profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Resume: u.Resume}
}

func (u User) authorProps() AuthorProps {
	props := AuthorProps{Name: u.Name, Avatar: u.Avatar, SocialMedia: []SocialMedia{}}
	if u.Resume != nil && u.Resume.SocialMedia != nil {
		props.SocialMedia = u.Resume.SocialMedia
	}
	return props
}
