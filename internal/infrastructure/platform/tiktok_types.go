package platform

// Wire types for the TikTok open API. Responses wrap their payload in a
// data object and carry a structured error whose code is "ok" on success.

// TikTokError is the error block present on every enveloped response
type TikTokError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

// IsSuccess returns true when the response carries no error
func (e *TikTokError) IsSuccess() bool {
	return e == nil || e.Code == "" || e.Code == "ok"
}

// TikTokTokenResponse is the flat response of the OAuth token endpoint
type TikTokTokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	OpenID           string `json:"open_id"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// TikTokUser is the profile payload of the user info endpoint
type TikTokUser struct {
	OpenID         string `json:"open_id"`
	UnionID        string `json:"union_id"`
	DisplayName    string `json:"display_name"`
	AvatarURL      string `json:"avatar_url"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	LikesCount     int64  `json:"likes_count"`
	VideoCount     int64  `json:"video_count"`
}

// TikTokUserResponse is the enveloped response of the user info endpoint
type TikTokUserResponse struct {
	Data struct {
		User *TikTokUser `json:"user"`
	} `json:"data"`
	Error *TikTokError `json:"error"`
}

// TikTokVideo is a single video entry from the video list endpoint
type TikTokVideo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"video_description"`
	CreateTime   int64  `json:"create_time"`
	CoverURL     string `json:"cover_image_url"`
	ShareURL     string `json:"share_url"`
	EmbedLink    string `json:"embed_link"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	ShareCount   int64  `json:"share_count"`
}

// TikTokVideoListResponse is the enveloped response of the video list endpoint
type TikTokVideoListResponse struct {
	Data struct {
		Videos  []TikTokVideo `json:"videos"`
		Cursor  int64         `json:"cursor"`
		HasMore bool          `json:"has_more"`
	} `json:"data"`
	Error *TikTokError `json:"error"`
}

// TikTokPublishResponse is the enveloped response of the publish init endpoint
type TikTokPublishResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
	} `json:"data"`
	Error *TikTokError `json:"error"`
}
