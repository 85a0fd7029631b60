package entity

// ChannelProfile is the denormalized view of a user seen as a channel:
// identity fields plus aggregates over the subscription edge set.
type ChannelProfile struct {
	ID                       string `json:"id"`
	Username                 string `json:"username"`
	Email                    string `json:"email"`
	FullName                 string `json:"fullName"`
	AvatarURL                string `json:"avatarUrl"`
	CoverImageURL            string `json:"coverImageUrl,omitempty"`
	SubscriberCount          int64  `json:"subscriberCount"`
	ChannelSubscribedToCount int64  `json:"channelSubscribedToCount"`
	IsSubscribed             bool   `json:"isSubscribed"`
}
