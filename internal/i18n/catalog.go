package i18n

var englishMessages = map[string]string{
	"app.name":      "Chalani Admin",
	"nav.home":      "Dashboard",
	"nav.audit":     "Audit trail",
	"nav.logout":    "Sign out",
	"nav.language":  "नेपाली",
	"nav.signed_in": "Signed in as %s",

	"resource.letters":   "Letters",
	"resource.receivers": "Receivers",
	"resource.products":  "Products",
	"resource.offices":   "Offices",
	"resource.branches":  "Branches",
	"resource.employees": "Employees",

	"status.active":     "Active",
	"status.bin":        "Bin",
	"status.draft":      "Draft",
	"status.dispatched": "Dispatched",

	"action.new":           "New",
	"action.edit":          "Edit",
	"action.delete":        "Move to bin",
	"action.restore":       "Restore",
	"action.view":          "View",
	"action.save":          "Save",
	"action.cancel":        "Cancel",
	"action.download_csv":  "Download CSV",
	"action.download_xlsx": "Download XLSX",
	"action.filter":        "Filter",
	"action.clear":         "Clear",
	"action.add_item":      "Add item",
	"action.remove_item":   "Remove",
	"action.pdf":           "PDF",
	"action.actions":       "Actions",
	"action.back":          "Back to list",

	"list.empty":        "No records found.",
	"list.total":        "Total: %d",
	"list.from":         "From",
	"list.to":           "To",
	"list.range_active": "Showing letters dated %s to %s",
	"list.prev":         "Previous",
	"list.next":         "Next",

	"flash.created":       "%s created.",
	"flash.updated":       "%s updated.",
	"flash.deleted":       "Moved to bin.",
	"flash.restored":      "Restored.",
	"flash.export_none":   "No data found to export.",
	"flash.export_failed": "Export failed. Please try again.",
	"flash.action_failed": "Action failed: %s",
	"flash.welcome":       "Welcome back, %s.",
	"flash.logged_out":    "You have been signed out.",
	"flash.load_failed":   "Could not load records. Please try again.",
	"flash.range_invalid": "The start date must not be after the end date.",
	"flash.range_format":  "Dates must be in YYYY-MM-DD format.",
	"flash.pdf_failed":    "The PDF could not be generated.",

	"error.not_found": "Record not found.",
	"error.load":      "Could not load the record.",
	"error.general":   "Something went wrong.",
	"error.login":     "Invalid username or password.",
	"error.backend":   "The server could not be reached.",

	"validation.required":     "This field is required.",
	"validation.min":          "Must be at least %s characters.",
	"validation.max":          "Must be at most %s characters.",
	"validation.email":        "Enter a valid email address.",
	"validation.numeric_np":   "Only digits are allowed.",
	"validation.phone_np":     "Enter a valid phone number.",
	"validation.bsdate":       "Enter a valid Bikram Sambat date (YYYY-MM-DD).",
	"validation.datetime":     "Enter a valid date (YYYY-MM-DD).",
	"validation.gt":           "Must be greater than %s.",
	"validation.serial_count": "Quantity must equal the number of serial numbers (%s).",
	"validation.min_items":    "Add at least one item.",
	"validation.invalid":      "Invalid value.",

	"field.id":               "ID",
	"field.name":             "Name",
	"field.name_np":          "Name (Nepali)",
	"field.code":             "Code",
	"field.address":          "Address",
	"field.phone":            "Phone",
	"field.email":            "Email",
	"field.branch":           "Branch",
	"field.office":           "Office",
	"field.full_name":        "Full name",
	"field.full_name_np":     "Full name (Nepali)",
	"field.designation":      "Designation",
	"field.unit":             "Unit",
	"field.description":      "Description",
	"field.dispatch_number":  "Dispatch no.",
	"field.subject":          "Subject",
	"field.date_bs":          "Date (BS)",
	"field.date_ad":          "Date (AD)",
	"field.signatory":        "Signatory",
	"field.receiver":         "Receiver",
	"field.receiver_name":    "Receiver name",
	"field.receiver_address": "Receiver address",
	"field.receiver_phone":   "Receiver phone",
	"field.receiver_email":   "Receiver email",
	"field.items":            "Items",
	"field.product":          "Product",
	"field.quantity":         "Quantity",
	"field.serial_number":    "Serial numbers",
	"field.remarks":          "Remarks",
	"field.status":           "Status",
	"field.username":         "Username",
	"field.password":         "Password",

	"home.title":       "Dashboard",
	"home.summary":     "Summary",
	"home.recent":      "Recent draft letters",
	"home.unavailable": "Summary unavailable.",

	"stat.total_letters":      "Letters",
	"stat.draft_letters":      "Draft letters",
	"stat.dispatched_letters": "Dispatched letters",
	"stat.receivers":          "Receivers",
	"stat.products":           "Products",
	"stat.offices":            "Offices",
	"stat.employees":          "Employees",

	"audit.title":    "Audit trail",
	"audit.actor":    "User",
	"audit.action":   "Action",
	"audit.resource": "Resource",
	"audit.record":   "Record",
	"audit.when":     "When",
	"audit.disabled": "The audit trail is not configured.",

	"login.title":  "Sign in",
	"login.submit": "Sign in",
}

var nepaliMessages = map[string]string{
	"app.name":      "चलानी प्रशासन",
	"nav.home":      "ड्यासबोर्ड",
	"nav.audit":     "लेखा परीक्षण",
	"nav.logout":    "बाहिर निस्कनुहोस्",
	"nav.language":  "English",
	"nav.signed_in": "%s को रूपमा प्रवेश",

	"resource.letters":   "पत्रहरू",
	"resource.receivers": "प्रापकहरू",
	"resource.products":  "सामानहरू",
	"resource.offices":   "कार्यालयहरू",
	"resource.branches":  "शाखाहरू",
	"resource.employees": "कर्मचारीहरू",

	"status.active":     "सक्रिय",
	"status.bin":        "रद्दी",
	"status.draft":      "मस्यौदा",
	"status.dispatched": "पठाइएको",

	"action.new":           "नयाँ",
	"action.edit":          "सम्पादन",
	"action.delete":        "रद्दीमा पठाउनुहोस्",
	"action.restore":       "पुनर्स्थापना",
	"action.view":          "हेर्नुहोस्",
	"action.save":          "सुरक्षित गर्नुहोस्",
	"action.cancel":        "रद्द गर्नुहोस्",
	"action.download_csv":  "CSV डाउनलोड",
	"action.download_xlsx": "XLSX डाउनलोड",
	"action.filter":        "छान्नुहोस्",
	"action.clear":         "हटाउनुहोस्",
	"action.add_item":      "सामान थप्नुहोस्",
	"action.remove_item":   "हटाउनुहोस्",
	"action.pdf":           "PDF",
	"action.actions":       "कार्यहरू",
	"action.back":          "सूचीमा फर्कनुहोस्",

	"list.empty":        "कुनै अभिलेख भेटिएन।",
	"list.total":        "जम्मा: %d",
	"list.from":         "देखि",
	"list.to":           "सम्म",
	"list.range_active": "%s देखि %s सम्मका पत्रहरू",
	"list.prev":         "अघिल्लो",
	"list.next":         "अर्को",

	"flash.created":       "%s सिर्जना भयो।",
	"flash.updated":       "%s अद्यावधिक भयो।",
	"flash.deleted":       "रद्दीमा पठाइयो।",
	"flash.restored":      "पुनर्स्थापना गरियो।",
	"flash.export_none":   "निर्यात गर्न कुनै डाटा भेटिएन।",
	"flash.export_failed": "निर्यात असफल भयो। फेरि प्रयास गर्नुहोस्।",
	"flash.action_failed": "कार्य असफल: %s",
	"flash.welcome":       "स्वागत छ, %s।",
	"flash.logged_out":    "तपाईं बाहिरिनुभयो।",
	"flash.load_failed":   "अभिलेख लोड हुन सकेन। फेरि प्रयास गर्नुहोस्।",
	"flash.range_invalid": "सुरु मिति अन्तिम मितिभन्दा पछि हुन सक्दैन।",
	"flash.range_format":  "मिति YYYY-MM-DD ढाँचामा हुनुपर्छ।",
	"flash.pdf_failed":    "PDF बनाउन सकिएन।",

	"error.not_found": "अभिलेख भेटिएन।",
	"error.load":      "अभिलेख लोड हुन सकेन।",
	"error.general":   "केही गडबड भयो।",
	"error.login":     "प्रयोगकर्ता नाम वा पासवर्ड मिलेन।",
	"error.backend":   "सर्भरसँग सम्पर्क हुन सकेन।",

	"validation.required":     "यो विवरण आवश्यक छ।",
	"validation.min":          "कम्तीमा %s अक्षर हुनुपर्छ।",
	"validation.max":          "बढीमा %s अक्षर हुनुपर्छ।",
	"validation.email":        "मान्य इमेल ठेगाना लेख्नुहोस्।",
	"validation.numeric_np":   "अङ्क मात्र लेख्नुहोस्।",
	"validation.phone_np":     "मान्य फोन नम्बर लेख्नुहोस्।",
	"validation.bsdate":       "मान्य विक्रम संवत मिति लेख्नुहोस् (YYYY-MM-DD)।",
	"validation.datetime":     "मान्य मिति लेख्नुहोस् (YYYY-MM-DD)।",
	"validation.gt":           "%s भन्दा ठूलो हुनुपर्छ।",
	"validation.serial_count": "परिमाण सिरियल नम्बरको सङ्ख्या (%s) बराबर हुनुपर्छ।",
	"validation.min_items":    "कम्तीमा एउटा सामान थप्नुहोस्।",
	"validation.invalid":      "अमान्य विवरण।",

	"field.id":               "क्र.सं.",
	"field.name":             "नाम",
	"field.name_np":          "नाम (नेपाली)",
	"field.code":             "कोड",
	"field.address":          "ठेगाना",
	"field.phone":            "फोन",
	"field.email":            "इमेल",
	"field.branch":           "शाखा",
	"field.office":           "कार्यालय",
	"field.full_name":        "पूरा नाम",
	"field.full_name_np":     "पूरा नाम (नेपाली)",
	"field.designation":      "पद",
	"field.unit":             "एकाइ",
	"field.description":      "विवरण",
	"field.dispatch_number":  "चलानी नं.",
	"field.subject":          "विषय",
	"field.date_bs":          "मिति (वि.सं.)",
	"field.date_ad":          "मिति (ई.सं.)",
	"field.signatory":        "हस्ताक्षरकर्ता",
	"field.receiver":         "प्रापक",
	"field.receiver_name":    "प्रापकको नाम",
	"field.receiver_address": "प्रापकको ठेगाना",
	"field.receiver_phone":   "प्रापकको फोन",
	"field.receiver_email":   "प्रापकको इमेल",
	"field.items":            "सामानहरू",
	"field.product":          "सामान",
	"field.quantity":         "परिमाण",
	"field.serial_number":    "सिरियल नम्बरहरू",
	"field.remarks":          "कैफियत",
	"field.status":           "अवस्था",
	"field.username":         "प्रयोगकर्ता नाम",
	"field.password":         "पासवर्ड",

	"home.title":       "ड्यासबोर्ड",
	"home.summary":     "सारांश",
	"home.recent":      "हालका मस्यौदा पत्रहरू",
	"home.unavailable": "सारांश उपलब्ध छैन।",

	"stat.total_letters":      "पत्रहरू",
	"stat.draft_letters":      "मस्यौदा पत्रहरू",
	"stat.dispatched_letters": "पठाइएका पत्रहरू",
	"stat.receivers":          "प्रापकहरू",
	"stat.products":           "सामानहरू",
	"stat.offices":            "कार्यालयहरू",
	"stat.employees":          "कर्मचारीहरू",

	"audit.title":    "लेखा परीक्षण",
	"audit.actor":    "प्रयोगकर्ता",
	"audit.action":   "कार्य",
	"audit.resource": "स्रोत",
	"audit.record":   "अभिलेख",
	"audit.when":     "समय",
	"audit.disabled": "लेखा परीक्षण सक्रिय गरिएको छैन।",

	"login.title":  "प्रवेश",
	"login.submit": "प्रवेश गर्नुहोस्",
}
