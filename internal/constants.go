package internal

const (
	// Connection Registration
	RPL_WELCOME  = "001"
	RPL_YOURHOST = "002"
	RPL_CREATED  = "003"
	RPL_MYINFO   = "004"
	RPL_ISUPPORT = "005"

	// MOTD
	RPL_MOTDSTART = "375"
	RPL_MOTD      = "372"
	RPL_ENDOFMOTD = "376"
	ERR_NOMOTD    = "422"

	// Channel Information
	RPL_TOPIC      = "332"
	RPL_NAMREPLY   = "353"
	RPL_ENDOFNAMES = "366"

	// Authentication
	RPL_LOGGEDIN   = "900"
	RPL_HOSTHIDDEN = "396"

	// Errors
	ERR_NOSUCHNICK       = "401"
	ERR_CANNOTSENDTOCHAN = "404"
	ERR_NICKNAMEINUSE    = "433"
	ERR_BANNEDFROMCHAN   = "474"
	ERR_CHANNELISFULL    = "471"
	ERR_INVITEONLYCHAN   = "473"
	ERR_BADCHANNELKEY    = "475"

	// IRC Commands
	CMD_PING    = "PING"
	CMD_PONG    = "PONG"
	CMD_PRIVMSG = "PRIVMSG"
	CMD_NOTICE  = "NOTICE"
	CMD_JOIN    = "JOIN"
	CMD_PART    = "PART"
	CMD_KICK    = "KICK"
	CMD_ERROR   = "ERROR"
)

const (
	BOT_VERSION  = "1.0.0"
	BOT_HOMEPAGE = "https://github.com/titlebot/titlebot"

	DEFAULT_CONFIG_PATH    = "./data/config.toml"
	DEFAULT_ERROR_LOG_PATH = "./data/error.log"
	DEFAULT_PLUGINS_PATH   = "./plugins"

	DEFAULT_RECONNECT_DELAY = 5
	DEFAULT_CONNECT_TIMEOUT = 30
	DEFAULT_JOIN_DELAY      = 5
)

// UserAgent identifies the bot to every web server it talks to.
const UserAgent = "titlebot/" + BOT_VERSION + " (+" + BOT_HOMEPAGE + ")"
