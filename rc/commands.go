package rc

// Selenium RC ("Selenese") commands used by the harness. See the
// selenium-server driver servlet for the full list.
const (
	CmdNewBrowserSession = "getNewBrowserSession"
	CmdTestComplete      = "testComplete"

	CmdOpen           = "open"
	CmdWindowMaximize = "windowMaximize"

	CmdClick     = "click"
	CmdRunScript = "runScript"
	CmdMouseOver = "mouseOver"
	CmdMouseDown = "mouseDown"
	CmdMouseUp   = "mouseUp"
	CmdType      = "type"
	CmdSelect    = "select"
	CmdCheck     = "check"
	CmdUncheck   = "uncheck"

	CmdIsElementPresent = "isElementPresent"
	CmdIsChecked        = "isChecked"
	CmdGetSelectedLabel = "getSelectedLabel"
	CmdGetText          = "getText"
	CmdGetBodyText      = "getBodyText"
	CmdGetHTMLSource    = "getHtmlSource"
	CmdGetLocation      = "getLocation"
	CmdGetEval          = "getEval"

	CmdGetCookie    = "getCookie"
	CmdDeleteCookie = "deleteCookie"

	CmdCaptureScreenshotToString = "captureScreenshotToString"
)
