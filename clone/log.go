package clone

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("entitygen.clone")
