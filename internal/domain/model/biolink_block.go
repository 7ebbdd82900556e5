package model

// Biolink block identifiers.
const (
	BlockLink       = "link"
	BlockHeading    = "heading"
	BlockParagraph  = "paragraph"
	BlockAvatar     = "avatar"
	BlockImage      = "image"
	BlockSocials    = "socials"
	BlockMail       = "mail"
	BlockSoundcloud = "soundcloud"
	BlockSpotify    = "spotify"
	BlockYoutube    = "youtube"
	BlockTwitch     = "twitch"
	BlockVimeo      = "vimeo"
	BlockTiktok     = "tiktok"
	BlockAppleMusic = "applemusic"
	BlockRSSFeed    = "rss_feed"
	BlockCustomHTML = "custom_html"
	BlockVCard      = "vcard"
	BlockDivider    = "divider"
)

// BiolinkBlock describes a content block type a biolink page can contain.
type BiolinkBlock struct {
	ID    string
	Icon  string
	Color string
}

// BiolinkBlocks is the ordered block catalog.
var BiolinkBlocks = []BiolinkBlock{
	{ID: BlockLink, Icon: "fa fa-link", Color: "#004ecc"},
	{ID: BlockHeading, Icon: "fa fa-heading", Color: "#000000"},
	{ID: BlockParagraph, Icon: "fa fa-paragraph", Color: "#494949"},
	{ID: BlockAvatar, Icon: "fa fa-user", Color: "#8b2abf"},
	{ID: BlockImage, Icon: "fa fa-image", Color: "#0682FF"},
	{ID: BlockSocials, Icon: "fa fa-users", Color: "#63d2ff"},
	{ID: BlockMail, Icon: "fa fa-envelope", Color: "#c91685"},
	{ID: BlockSoundcloud, Icon: "fab fa-soundcloud", Color: "#ff8800"},
	{ID: BlockSpotify, Icon: "fab fa-spotify", Color: "#1db954"},
	{ID: BlockYoutube, Icon: "fab fa-youtube", Color: "#ff0000"},
	{ID: BlockTwitch, Icon: "fab fa-twitch", Color: "#6441a5"},
	{ID: BlockVimeo, Icon: "fab fa-vimeo", Color: "#1ab7ea"},
	{ID: BlockTiktok, Icon: "fab fa-tiktok", Color: "#FD3E3E"},
	{ID: BlockAppleMusic, Icon: "fab fa-apple", Color: "#FA2D48"},
	{ID: BlockRSSFeed, Icon: "fa fa-rss", Color: "#ee802f"},
	{ID: BlockCustomHTML, Icon: "fa fa-code", Color: "#02234c"},
	{ID: BlockVCard, Icon: "fa fa-id-card", Color: "#FAB005"},
	{ID: BlockDivider, Icon: "fa fa-grip-lines", Color: "#b7b7b7"},
}
