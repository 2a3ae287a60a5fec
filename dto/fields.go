package dto

// Ordered candidate keys for fields whose name drifts between server versions
// and client libraries. The first present, non-null key wins.
var (
	accountAvatarKeys    = []string{"avatar", "avatar_static", "avatarStatic", "avatar_url", "avatarUrl"}
	accountHeaderKeys    = []string{"header", "header_static", "headerStatic", "header_url", "headerUrl"}
	accountNameKeys      = []string{"displayName", "display_name"}
	accountFollowersKeys = []string{"followersCount", "followers_count"}
	accountFollowingKeys = []string{"followingCount", "following_count"}
	accountStatusesKeys  = []string{"statusesCount", "statuses_count"}

	mediaUrlKeys     = []string{"url", "media_url", "mediaUrl", "remote_url", "remoteUrl"}
	mediaPreviewKeys = []string{"previewUrl", "preview_url", "preview"}

	statusMediaKeys      = []string{"mediaAttachments", "media_attachments"}
	statusReblogKeys     = []string{"reblog", "rebloggedStatus"}
	statusCreatedKeys    = []string{"createdAt", "created_at"}
	statusEditedKeys     = []string{"edited_at", "editedAt"}
	statusSpoilerKeys    = []string{"spoilerText", "spoiler_text"}
	statusReplyToKeys    = []string{"in_reply_to_id", "inReplyToId"}
	statusRepliesKeys    = []string{"replies_count", "repliesCount"}
	statusReblogsKeys    = []string{"reblogs_count", "reblogsCount"}
	statusFavouritesKeys = []string{"favourites_count", "favouritesCount"}

	notifCreatedKeys = []string{"createdAt", "created_at"}

	instanceDescKeys = []string{"description", "shortDescription", "short_description"}
)
