package bridge

// DEX opcode mnemonics referenced by the executor table. Only names the
// table registers (as primary names or aliases) are listed; the VM treats
// any other mnemonic according to its strictness setting.
const (
	OpNop = "nop"

	OpReturn              = "return"
	OpReturnVoid          = "return-void"
	OpReturnVoidBarrier   = "return-void-barrier"
	OpReturnVoidNoBarrier = "return-void-no-barrier"
	OpReturnObject        = "return-object"
	OpReturnWide          = "return-wide"

	OpGoto   = "goto"
	OpGoto16 = "goto/16"
	OpGoto32 = "goto/32"

	OpInvoke        = "invoke"
	OpInvokeDirect  = "invoke-direct"
	OpInvokeStatic  = "invoke-static"
	OpInvokeVirtual = "invoke-virtual"

	OpThrow = "throw"

	OpIntToLong   = "int-to-long"
	OpIntToInt    = "int-to-int"
	OpLongToInt   = "long-to-int"
	OpIntToChar   = "int-to-char"
	OpIntToShort  = "int-to-short"
	OpIntToByte   = "int-to-byte"
	OpIntToFloat  = "int-to-float"
	OpIntToDouble = "int-to-double"

	OpSput               = "sput"
	OpSputObject         = "sput-object"
	OpSputBoolean        = "sput-boolean"
	OpSputByte           = "sput-byte"
	OpSputChar           = "sput-char"
	OpSputShort          = "sput-short"
	OpSputWide           = "sput-wide"
	OpSputWideVolatile   = "sput-wide-volatile"
	OpSputObjectVolatile = "sput-object-volatile"

	OpSget               = "sget"
	OpSgetObject         = "sget-object"
	OpSgetBoolean        = "sget-boolean"
	OpSgetByte           = "sget-byte"
	OpSgetChar           = "sget-char"
	OpSgetShort          = "sget-short"
	OpSgetWide           = "sget-wide"
	OpSgetWideVolatile   = "sget-wide-volatile"
	OpSgetVolatile       = "sget-volatile"
	OpSgetObjectVolatile = "sget-object-volatile"

	OpIget               = "iget"
	OpIgetObject         = "iget-object"
	OpIgetBoolean        = "iget-boolean"
	OpIgetByte           = "iget-byte"
	OpIgetChar           = "iget-char"
	OpIgetShort          = "iget-short"
	OpIgetWide           = "iget-wide"
	OpIgetVolatile       = "iget-volatile"
	OpIgetObjectVolatile = "iget-object-volatile"

	OpIput               = "iput"
	OpIputObject         = "iput-object"
	OpIputBoolean        = "iput-boolean"
	OpIputByte           = "iput-byte"
	OpIputChar           = "iput-char"
	OpIputShort          = "iput-short"
	OpIputWide           = "iput-wide"
	OpIputVolatile       = "iput-volatile"
	OpIputObjectVolatile = "iput-object-volatile"

	OpConst            = "const"
	OpConst4           = "const/4"
	OpConst16          = "const/16"
	OpConstHigh16      = "const/high16"
	OpConstString      = "const-string"
	OpConstStringJumbo = "const-string/jumbo"
	OpConstWide        = "const-wide"
	OpConstWide16      = "const-wide/16"
	OpConstWide32      = "const-wide/32"
	OpConstWideHigh16  = "const-wide/high16"
	OpConstClass       = "const-class"

	OpMoveResult       = "move-result"
	OpMoveResultObject = "move-result-object"
	OpMoveResultWide   = "move-result-wide"
	OpMove             = "move"
	OpMoveFrom16       = "move/from16"
	OpMove16           = "move/16"
	OpMoveWide         = "move-wide"
	OpMoveWideFrom16   = "move-wide/from16"
	OpMoveWide16       = "move-wide/16"
	OpMoveObject       = "move-object"
	OpMoveObjectFrom16 = "move-object/from16"
	OpMoveObject16     = "move-object/16"
	OpMoveException    = "move-exception"

	OpNewInstance = "new-instance"
	OpNewArray    = "new-array"
	OpCheckCast   = "check-cast"
	OpInstanceOf  = "instance-of"

	OpPackedSwitch = "packed-switch"
	OpSparseSwitch = "sparse-switch"

	OpIfEq  = "if-eq"
	OpIfNe  = "if-ne"
	OpIfLt  = "if-lt"
	OpIfLe  = "if-le"
	OpIfGt  = "if-gt"
	OpIfGe  = "if-ge"
	OpIfEqz = "if-eqz"
	OpIfNez = "if-nez"
	OpIfLtz = "if-ltz"
	OpIfLez = "if-lez"
	OpIfGtz = "if-gtz"
	OpIfGez = "if-gez"

	OpArrayLength   = "array-length"
	OpFillArrayData = "fill-array-data"
	OpAget          = "aget"
	OpAgetObject    = "aget-object"
	OpAgetBoolean   = "aget-boolean"
	OpAgetByte      = "aget-byte"
	OpAgetChar      = "aget-char"
	OpAgetShort     = "aget-short"
	OpAgetWide      = "aget-wide"
	OpAput          = "aput"
	OpAputObject    = "aput-object"
	OpAputBoolean   = "aput-boolean"
	OpAputByte      = "aput-byte"
	OpAputChar      = "aput-char"
	OpAputShort     = "aput-short"
	OpAputWide      = "aput-wide"

	OpNegInt    = "neg-int"
	OpNegLong   = "neg-long"
	OpNegFloat  = "neg-float"
	OpNegDouble = "neg-double"
	OpNotInt    = "not-int"
	OpNotLong   = "not-long"
)
